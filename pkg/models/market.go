package models

// MarketKind classifies how a market's line is wagered: against a numeric
// threshold, or as a yes/no proposition.
type MarketKind string

const (
	MarketNumericLine MarketKind = "numeric_line"
	MarketBinary      MarketKind = "binary"
)

// marketKinds is the closed classification table. A market is binary only when
// listed here; new markets must be registered explicitly rather than inferred
// from their names.
var marketKinds = map[string]MarketKind{
	"player_points":        MarketNumericLine,
	"player_rebounds":      MarketNumericLine,
	"player_assists":       MarketNumericLine,
	"player_threes":        MarketNumericLine,
	"player_blocks":        MarketNumericLine,
	"player_steals":        MarketNumericLine,
	"player_turnovers":     MarketNumericLine,
	"player_pra":           MarketNumericLine,
	"player_double_double": MarketBinary,
	"player_triple_double": MarketBinary,
	"player_first_basket":  MarketBinary,
}

// KindForMarket returns the kind for a market key. Unregistered markets
// default to numeric-line, the overwhelmingly common case.
func KindForMarket(market string) MarketKind {
	if kind, ok := marketKinds[market]; ok {
		return kind
	}
	return MarketNumericLine
}
