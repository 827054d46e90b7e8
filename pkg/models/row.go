package models

// ProfileRow is one player/market/line/game hit-rate record returned by the
// stats service. Rows are immutable once fetched; a new fetch replaces the
// whole set.
type ProfileRow struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	Market     string `json:"market"`
	GameID     string `json:"game_id,omitempty"`

	// Line is the current betting line. A nil line means there is no
	// actionable market for this row and it is never shown.
	Line *float64 `json:"line"`

	// Rolling hit-rate percentages (0-100).
	Last5Pct  *float64 `json:"last5_pct"`
	Last10Pct *float64 `json:"last10_pct"`
	Last20Pct *float64 `json:"last20_pct"`
	SeasonPct *float64 `json:"season_pct"`
	H2HPct    *float64 `json:"h2h_pct"`

	// Rolling stat averages over the same windows.
	Last5Avg  *float64 `json:"last5_avg"`
	Last10Avg *float64 `json:"last10_avg"`
	Last20Avg *float64 `json:"last20_avg"`
	SeasonAvg *float64 `json:"season_avg"`
	H2HAvg    *float64 `json:"h2h_avg"`

	HitStreak int `json:"hit_streak"`

	// MatchupRank ranks the opposing defense against this player's position,
	// 1 = toughest matchup, 30 = weakest defense (best for the player).
	MatchupRank *int `json:"matchup_rank,omitempty"`

	// InjuryStatus is free text from the injury report ("out", "questionable",
	// ...). Empty means healthy.
	InjuryStatus string `json:"injury_status,omitempty"`

	Position string `json:"position,omitempty"`

	GameDate   string `json:"game_date"`   // YYYY-MM-DD
	GameStatus string `json:"game_status"` // scheduled tip time ("7:30 pm ET") or live/final text

	Team         string `json:"team"`
	TeamAbbr     string `json:"team_abbr"`
	Opponent     string `json:"opponent"`
	OpponentAbbr string `json:"opponent_abbr"`
}

// ProfileResponse is the stats service's paginated response shape. Count is
// the total available server-side under the current filters, independent of
// the requested limit.
type ProfileResponse struct {
	Rows  []ProfileRow `json:"rows"`
	Count int          `json:"count"`
	Meta  ProfileMeta  `json:"meta"`
}

// ProfileMeta carries response metadata from the stats service.
type ProfileMeta struct {
	Date string `json:"date"`
}

// Game is the schedule service's game record.
type Game struct {
	GameID     string `json:"game_id"`
	GameDate   string `json:"game_date"`
	GameStatus string `json:"game_status"`
	HomeTeam   string `json:"home_team,omitempty"`
	AwayTeam   string `json:"away_team,omitempty"`
}

// ErrorResponse is the standard error envelope for HTTP responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
