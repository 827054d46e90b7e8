package edges

import (
	"sort"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

// Reconcile rebuilds the display order after a live refresh so that rows the
// user has expanded stay visually where they were, even when their fresh sort
// rank moved. pinned maps opportunity id to the index it last rendered at.
//
// Walking target positions 0..N-1: a pinned row whose recorded index equals
// the position is placed there; otherwise the next unpinned row follows its
// freshly-sorted relative order. Leftovers are appended in order.
func Reconcile(sorted []models.Opportunity, pinned map[string]int) []models.Opportunity {
	if len(pinned) == 0 {
		return sorted
	}

	type pinnedRow struct {
		row   models.Opportunity
		index int
	}

	var pins []pinnedRow
	unpinned := make([]models.Opportunity, 0, len(sorted))
	for _, opp := range sorted {
		if idx, ok := pinned[opp.ID]; ok {
			pins = append(pins, pinnedRow{row: opp, index: idx})
		} else {
			unpinned = append(unpinned, opp)
		}
	}

	sort.SliceStable(pins, func(i, j int) bool {
		return pins[i].index < pins[j].index
	})

	out := make([]models.Opportunity, 0, len(sorted))
	pi, ui := 0, 0
	for pos := 0; pos < len(sorted); pos++ {
		switch {
		case pi < len(pins) && pins[pi].index == pos:
			out = append(out, pins[pi].row)
			pi++
		case ui < len(unpinned):
			out = append(out, unpinned[ui])
			ui++
		case pi < len(pins):
			// Pinned row whose recorded index is beyond the list.
			out = append(out, pins[pi].row)
			pi++
		}
	}
	for ; ui < len(unpinned); ui++ {
		out = append(out, unpinned[ui])
	}
	for ; pi < len(pins); pi++ {
		out = append(out, pins[pi].row)
	}

	return out
}
