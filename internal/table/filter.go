package table

import (
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

// OddsView is the read side of the odds cache that filtering and sorting
// consult. While Loading is true, odds-dependent stages are skipped so rows
// don't disappear or jump before prices are known.
type OddsView interface {
	Loading() bool
	HasPrice(key string) bool
}

// FilterParams are the user-driven filter inputs for one view render.
type FilterParams struct {
	// Selected markets. Empty means the user deselected everything, which is
	// an explicit "show nothing" state, not "no filter".
	Markets []string

	// AllMarkets is the full known market set; when the selection covers it
	// the market stage is a no-op.
	AllMarkets []string

	// Explicitly selected game ids. When empty, the default behavior hides
	// rows for games that have already started instead.
	GameIDs []string

	// Position codes; generic "G"/"F" match any guard/forward position.
	Positions []string

	// TopMatchups keeps only rows in the top-N matchup band. 0 disables.
	TopMatchups int

	// Search is a case-insensitive substring over player/team/opponent.
	Search string

	// HideNoOdds drops rows with no priced side. Skipped while odds load.
	HideNoOdds bool

	Now time.Time
}

// FilterRows applies the filter pipeline in its required order. Later stages
// see only the survivors of earlier ones. The input slice is not mutated.
func FilterRows(rows []models.ProfileRow, p FilterParams, odds OddsView) []models.ProfileRow {
	out := make([]models.ProfileRow, 0, len(rows))

	// Stage 1: rows without a line are never shown.
	for _, row := range rows {
		if row.Line != nil {
			out = append(out, row)
		}
	}

	// Stage 2: market filter. Empty selection is an explicit empty result.
	if len(p.Markets) == 0 {
		return []models.ProfileRow{}
	}
	if !coversAllMarkets(p.Markets, p.AllMarkets) {
		selected := toSet(p.Markets)
		out = keep(out, func(r models.ProfileRow) bool {
			return selected[r.Market]
		})
	}

	// Stage 3: explicit game filter, or default hide-started behavior.
	if len(p.GameIDs) > 0 {
		selected := make(map[string]bool, len(p.GameIDs))
		for _, id := range p.GameIDs {
			selected[models.NormalizeGameID(id)] = true
		}
		out = keep(out, func(r models.ProfileRow) bool {
			if r.GameID == "" {
				return false
			}
			return selected[models.NormalizeGameID(r.GameID)]
		})
	} else {
		now := p.Now
		if now.IsZero() {
			now = time.Now()
		}
		out = keep(out, func(r models.ProfileRow) bool {
			return !GameStarted(r.GameDate, r.GameStatus, now)
		})
	}

	// Stage 4: position filter.
	if len(p.Positions) > 0 {
		out = keep(out, func(r models.ProfileRow) bool {
			return matchesPosition(r.Position, p.Positions)
		})
	}

	// Stage 5: top-N matchups.
	if p.TopMatchups > 0 {
		out = keep(out, func(r models.ProfileRow) bool {
			return r.MatchupRank != nil && InTopMatchups(*r.MatchupRank, p.TopMatchups)
		})
	}

	// Stage 6: search.
	if term := strings.TrimSpace(p.Search); term != "" {
		lower := strings.ToLower(term)
		out = keep(out, func(r models.ProfileRow) bool {
			return matchesSearch(r, lower)
		})
	}

	// Stage 7: hide rows without odds, but only once the cache has settled.
	if p.HideNoOdds && odds != nil && !odds.Loading() {
		out = keep(out, func(r models.ProfileRow) bool {
			return odds.HasPrice(models.SelectionKeyForRow(r))
		})
	}

	return out
}

func keep(rows []models.ProfileRow, pred func(models.ProfileRow) bool) []models.ProfileRow {
	filtered := rows[:0]
	for _, r := range rows {
		if pred(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func coversAllMarkets(selected, all []string) bool {
	if len(all) == 0 {
		return false
	}
	set := toSet(selected)
	for _, m := range all {
		if !set[m] {
			return false
		}
	}
	return true
}

// positionFamilies expands generic position codes to their specific members.
var positionFamilies = map[string][]string{
	"G": {"G", "PG", "SG"},
	"F": {"F", "SF", "PF"},
}

func matchesPosition(position string, selected []string) bool {
	if position == "" {
		return false
	}
	pos := strings.ToUpper(position)
	for _, sel := range selected {
		code := strings.ToUpper(sel)
		if code == pos {
			return true
		}
		for _, member := range positionFamilies[code] {
			if member == pos {
				return true
			}
		}
	}
	return false
}

func matchesSearch(r models.ProfileRow, lowerTerm string) bool {
	for _, field := range []string{
		r.PlayerName,
		r.Team, r.TeamAbbr,
		r.Opponent, r.OpponentAbbr,
	} {
		if field != "" && strings.Contains(strings.ToLower(field), lowerTerm) {
			return true
		}
	}
	return false
}
