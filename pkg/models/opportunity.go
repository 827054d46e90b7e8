package models

import "time"

// Side identifies which side of a market an opportunity prices.
type Side string

const (
	SideOver  Side = "over"
	SideUnder Side = "under"
	SideYes   Side = "yes"
	SideNo    Side = "no"
)

// BookLimitPrice is a per-book price with the book's posted limit.
type BookLimitPrice struct {
	Book  string   `json:"book"`
	Price int      `json:"price"` // American odds
	Limit *float64 `json:"limit,omitempty"`
}

// Opportunity is one priced discrepancy between the best available odds and a
// sharp/fair reference price. ID is stable across live-refresh cycles so that
// expanded/hidden/favorite state keyed by ID keeps applying to the same
// opportunity even as its numeric fields move.
type Opportunity struct {
	ID          string `json:"id"`
	SportKey    string `json:"sport_key"`
	EventID     string `json:"event_id"`
	MarketKey   string `json:"market_key"`
	OutcomeName string `json:"outcome_name"`
	Side        Side   `json:"side"`

	EdgePct      float64  `json:"edge_pct"`
	BestPrice    int      `json:"best_price"`
	BestBook     string   `json:"best_book"`
	SharpPrice   int      `json:"sharp_price"`
	SharpBooks   []string `json:"sharp_books,omitempty"`
	FairAmerican int      `json:"fair_american"`

	AllBooks []BookLimitPrice `json:"all_books,omitempty"`

	// Which saved filter produced this row.
	FilterID   int64  `json:"filter_id,omitempty"`
	FilterName string `json:"filter_name,omitempty"`

	Stake      *float64  `json:"stake,omitempty"`
	DetectedAt time.Time `json:"detected_at"`
}

// ChangeDirection marks which way a field moved on a live refresh.
type ChangeDirection string

const (
	ChangeUp   ChangeDirection = "up"
	ChangeDown ChangeDirection = "down"
)

// EdgeEventType classifies live stream events for the edge board.
type EdgeEventType string

const (
	EdgeEventAdded   EdgeEventType = "added"
	EdgeEventChanged EdgeEventType = "changed"
	EdgeEventStale   EdgeEventType = "stale"
)

// EdgeEvent is one message on the live opportunities stream.
type EdgeEvent struct {
	Type        EdgeEventType   `json:"type"`
	Opportunity Opportunity     `json:"opportunity"`
	Direction   ChangeDirection `json:"direction,omitempty"`
}
