package table

import (
	"sort"
	"strings"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

// SortField names a sortable column of the profile table.
type SortField string

const (
	SortLine        SortField = "line"
	SortLast5Pct    SortField = "last5_pct"
	SortLast10Pct   SortField = "last10_pct"
	SortLast20Pct   SortField = "last20_pct"
	SortSeasonPct   SortField = "season_pct"
	SortH2HPct      SortField = "h2h_pct"
	SortLast5Avg    SortField = "last5_avg"
	SortLast10Avg   SortField = "last10_avg"
	SortLast20Avg   SortField = "last20_avg"
	SortSeasonAvg   SortField = "season_avg"
	SortH2HAvg      SortField = "h2h_avg"
	SortHitStreak   SortField = "hit_streak"
	SortMatchupRank SortField = "matchup_rank"
)

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Defaults for a fresh view. Selecting a new field always starts descending;
// there are no per-field direction overrides.
const (
	DefaultSortField = SortLast10Pct
	DefaultDirection = Desc
)

const injuryOut = "out"

// SortRows produces a total order over rows:
//  1. rows whose injury status is "out" sink to the bottom regardless of
//     field or direction;
//  2. the chosen field compares numerically, direction applied, with nil
//     values after non-nil values either way (nil is unknown, not low);
//  3. rows with a priced side beat rows without, but only once the odds
//     cache has settled;
//  4. remaining ties keep their input order.
//
// The input slice is not mutated.
func SortRows(rows []models.ProfileRow, field SortField, dir Direction, odds OddsView) []models.ProfileRow {
	sorted := make([]models.ProfileRow, len(rows))
	copy(sorted, rows)

	sign := 1.0
	if dir == Desc {
		sign = -1.0
	}

	oddsSettled := odds != nil && !odds.Loading()

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		// Level 1: injury bottom-pin.
		aOut := strings.EqualFold(a.InjuryStatus, injuryOut)
		bOut := strings.EqualFold(b.InjuryStatus, injuryOut)
		if aOut != bOut {
			return !aOut
		}

		// Level 2: primary field, nils last regardless of direction.
		av := fieldValue(a, field)
		bv := fieldValue(b, field)
		switch {
		case av == nil && bv != nil:
			return false
		case av != nil && bv == nil:
			return true
		case av != nil && bv != nil && *av != *bv:
			return sign*(*av) < sign*(*bv)
		}

		// Level 3: odds availability, once the cache is settled.
		if oddsSettled {
			aHas := odds.HasPrice(models.SelectionKeyForRow(a))
			bHas := odds.HasPrice(models.SelectionKeyForRow(b))
			if aHas != bHas {
				return aHas
			}
		}

		// Level 4: stable on input order.
		return false
	})

	return sorted
}

// ParseSortField maps a query-string value to a sort field, falling back to
// the default for unknown values.
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortLine, SortLast5Pct, SortLast10Pct, SortLast20Pct, SortSeasonPct,
		SortH2HPct, SortLast5Avg, SortLast10Avg, SortLast20Avg, SortSeasonAvg,
		SortH2HAvg, SortHitStreak, SortMatchupRank:
		return SortField(s)
	}
	return DefaultSortField
}

// ParseDirection maps a query-string value to a direction.
func ParseDirection(s string) Direction {
	if Direction(s) == Asc {
		return Asc
	}
	return DefaultDirection
}

func fieldValue(r models.ProfileRow, field SortField) *float64 {
	switch field {
	case SortLine:
		return r.Line
	case SortLast5Pct:
		return r.Last5Pct
	case SortLast10Pct:
		return r.Last10Pct
	case SortLast20Pct:
		return r.Last20Pct
	case SortSeasonPct:
		return r.SeasonPct
	case SortH2HPct:
		return r.H2HPct
	case SortLast5Avg:
		return r.Last5Avg
	case SortLast10Avg:
		return r.Last10Avg
	case SortLast20Avg:
		return r.Last20Avg
	case SortSeasonAvg:
		return r.SeasonAvg
	case SortH2HAvg:
		return r.H2HAvg
	case SortHitStreak:
		v := float64(r.HitStreak)
		return &v
	case SortMatchupRank:
		if r.MatchupRank == nil {
			return nil
		}
		v := float64(*r.MatchupRank)
		return &v
	}
	return r.Last10Pct
}
