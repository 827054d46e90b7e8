package models

// BookQuote is one priced side at one sportsbook.
type BookQuote struct {
	Price int    `json:"price"` // American odds
	Book  string `json:"book"`
	Link  string `json:"link,omitempty"`
}

// BookPrice is a per-book entry in the full market breakdown.
type BookPrice struct {
	Book  string `json:"book"`
	Over  *int   `json:"over,omitempty"`
	Under *int   `json:"under,omitempty"`
}

// LineOdds is the best-price snapshot for one selection. It is replaced
// wholesale on refresh, never merged field by field. An absent LineOdds
// means "not yet loaded"; a present one with nil best prices means the
// market resolved with no odds.
type LineOdds struct {
	BestOver  *BookQuote  `json:"best_over,omitempty"`
	BestUnder *BookQuote  `json:"best_under,omitempty"`
	Books     []BookPrice `json:"books,omitempty"`
}

// HasPrice reports whether at least one side of the market is priced.
func (o LineOdds) HasPrice() bool {
	return o.BestOver != nil || o.BestUnder != nil
}

// Selection identifies one line to the odds service.
type Selection struct {
	Key  string   `json:"key"`
	Line *float64 `json:"line"`
}

// OddsResponse is the odds service's response shape.
type OddsResponse struct {
	Odds map[string]LineOdds `json:"odds"`
}
