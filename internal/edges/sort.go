package edges

import (
	"sort"
	"strings"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

// SortField names a sortable column of the edge table.
type SortField string

const (
	SortEdgePct    SortField = "edge_pct"
	SortDetectedAt SortField = "detected_at"
	SortFairValue  SortField = "fair_value"
	SortStake      SortField = "stake"
	SortFilterName SortField = "filter_name"
)

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

const (
	DefaultSortField = SortEdgePct
	DefaultDirection = Desc
)

// SortOpportunities orders the edge table by the chosen field. Nil stakes
// sort after present ones regardless of direction; remaining ties keep input
// order.
func SortOpportunities(opps []models.Opportunity, field SortField, dir Direction) []models.Opportunity {
	sorted := make([]models.Opportunity, len(opps))
	copy(sorted, opps)

	desc := dir == Desc

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		if field == SortFilterName {
			an := strings.ToLower(a.FilterName)
			bn := strings.ToLower(b.FilterName)
			if an != bn {
				if desc {
					return an > bn
				}
				return an < bn
			}
			return false
		}

		av, aok := numericValue(a, field)
		bv, bok := numericValue(b, field)
		switch {
		case !aok && bok:
			return false
		case aok && !bok:
			return true
		case aok && bok && av != bv:
			if desc {
				return av > bv
			}
			return av < bv
		}
		return false
	})

	return sorted
}

func numericValue(o models.Opportunity, field SortField) (float64, bool) {
	switch field {
	case SortDetectedAt:
		return float64(o.DetectedAt.UnixNano()), true
	case SortFairValue:
		return float64(o.FairAmerican), true
	case SortStake:
		if o.Stake == nil {
			return 0, false
		}
		return *o.Stake, true
	default:
		return o.EdgePct, true
	}
}

// ParseSortField maps a query value to an edge sort field.
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortEdgePct, SortDetectedAt, SortFairValue, SortStake, SortFilterName:
		return SortField(s)
	}
	return DefaultSortField
}

// ParseDirection maps a query value to a direction.
func ParseDirection(s string) Direction {
	if Direction(s) == Asc {
		return Asc
	}
	return DefaultDirection
}
