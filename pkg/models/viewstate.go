package models

// ViewState is the small subset of table state persisted across a navigation
// round trip: selected markets, sort, and any explicit game selection. It is
// cleared shortly after restoration so a later fresh visit starts clean.
type ViewState struct {
	Markets   []string `json:"markets"`
	SortField string   `json:"sort_field"`
	SortDir   string   `json:"sort_dir"`
	GameIDs   []string `json:"game_ids,omitempty"`
}
