package edges_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/prop-table/internal/edges"
	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

func added(id string, edge float64) models.EdgeEvent {
	return models.EdgeEvent{
		Type:        models.EdgeEventAdded,
		Opportunity: models.Opportunity{ID: id, EdgePct: edge},
	}
}

func changed(id string, edge float64, dir models.ChangeDirection) models.EdgeEvent {
	return models.EdgeEvent{
		Type:        models.EdgeEventChanged,
		Opportunity: models.Opportunity{ID: id, EdgePct: edge},
		Direction:   dir,
	}
}

func staleEvent(id string) models.EdgeEvent {
	return models.EdgeEvent{
		Type:        models.EdgeEventStale,
		Opportunity: models.Opportunity{ID: id},
	}
}

func TestBoard_ApplyAndMarkers(t *testing.T) {
	b := edges.NewBoard()
	b.Apply(added("a", 5))
	b.Apply(added("b", 3))
	b.Apply(changed("b", 4, models.ChangeUp))
	b.Apply(staleEvent("a"))

	snap := b.Snapshot()

	assertOrder(t, snap.Rows, "a", "b")
	if len(snap.Added) != 1 || snap.Added[0] != "a" {
		t.Errorf("added markers = %v, want [a]", snap.Added)
	}
	if len(snap.Stale) != 1 || snap.Stale[0] != "a" {
		t.Errorf("stale markers = %v, want [a]", snap.Stale)
	}
	if snap.Changed["b"] != models.ChangeUp {
		t.Errorf("changed markers = %v, want b up", snap.Changed)
	}
}

func TestBoard_ApplyIsIdempotent(t *testing.T) {
	b := edges.NewBoard()
	ev := added("a", 5)
	b.Apply(ev)
	first := b.Snapshot()
	b.Apply(ev)
	second := b.Snapshot()

	if len(first.Rows) != len(second.Rows) || len(first.Added) != len(second.Added) {
		t.Errorf("replaying an event changed the board: %v vs %v", first, second)
	}
}

func TestBoard_StaleForUnknownIDIsIgnored(t *testing.T) {
	b := edges.NewBoard()
	b.Apply(staleEvent("never seen"))

	snap := b.Snapshot()
	if len(snap.Rows) != 0 || len(snap.Stale) != 0 {
		t.Errorf("stale for an unknown id should be a no-op, got %v", snap)
	}
}

func TestBoard_ClearMarkersKeepsStale(t *testing.T) {
	b := edges.NewBoard()
	b.Apply(added("a", 5))
	b.Apply(added("b", 3))
	b.Apply(staleEvent("b"))

	b.ClearMarkers()
	snap := b.Snapshot()

	if len(snap.Added) != 0 || len(snap.Changed) != 0 {
		t.Errorf("added/changed should clear, got added=%v changed=%v", snap.Added, snap.Changed)
	}
	if len(snap.Stale) != 1 || snap.Stale[0] != "b" {
		t.Errorf("stale must persist across marker clears, got %v", snap.Stale)
	}
}

func TestBoard_ExpandPinsAcrossRefreshes(t *testing.T) {
	b := edges.NewBoard()
	b.Apply(added("a", 9))
	b.Apply(added("b", 5))
	b.Apply(added("c", 1))

	// Render once so the board knows current positions, then expand the
	// middle row.
	b.Snapshot()
	b.Expand("b")

	// A live refresh pushes b's edge to the top rank; the pin holds it at
	// index 1.
	b.Apply(changed("b", 20, models.ChangeUp))
	snap := b.Snapshot()
	assertOrder(t, snap.Rows, "a", "b", "c")

	// The pin survives a second refresh cycle too.
	b.Apply(changed("c", 15, models.ChangeUp))
	snap = b.Snapshot()
	assertOrder(t, snap.Rows, "c", "b", "a")

	// Collapsing releases the pin; natural order returns.
	b.Collapse("b")
	snap = b.Snapshot()
	assertOrder(t, snap.Rows, "b", "c", "a")
}

func TestBoard_ExpandBeforeFirstSnapshotStillPins(t *testing.T) {
	b := edges.NewBoard()
	b.Apply(added("a", 9))
	b.Apply(added("b", 5))
	b.Apply(added("c", 1))

	// No snapshot has been taken yet, so the board has no rendered order.
	// Expanding must still pin, at the end of the (empty) order.
	b.Expand("b")

	snap := b.Snapshot()
	assertOrder(t, snap.Rows, "b", "a", "c")

	// The pin was refreshed to b's landed position and holds across a
	// refresh that would otherwise demote it.
	b.Apply(changed("b", 0.5, models.ChangeDown))
	snap = b.Snapshot()
	assertOrder(t, snap.Rows, "b", "a", "c")
}

func TestBoard_ExpandHiddenRowPinsAtEnd(t *testing.T) {
	b := edges.NewBoard()
	b.Apply(added("a", 3))
	b.Apply(added("b", 9))

	b.SetHidden([]string{"b"})
	b.Snapshot()

	// b is known to the board but absent from the rendered order; the pin
	// lands after the current order instead of silently dropping.
	b.Expand("b")
	b.SetHidden(nil)

	snap := b.Snapshot()
	assertOrder(t, snap.Rows, "a", "b")
}

func TestBoard_ExpandUnknownIDIsIgnored(t *testing.T) {
	b := edges.NewBoard()
	b.Apply(added("a", 5))
	b.Snapshot()

	b.Expand("never seen")

	b.Apply(added("b", 9))
	snap := b.Snapshot()
	assertOrder(t, snap.Rows, "b", "a")
}

func TestBoard_SetHidden(t *testing.T) {
	b := edges.NewBoard()
	b.Apply(added("a", 5))
	b.Apply(added("b", 3))

	b.SetHidden([]string{"a"})
	snap := b.Snapshot()
	assertOrder(t, snap.Rows, "b")

	b.SetHidden(nil)
	snap = b.Snapshot()
	assertOrder(t, snap.Rows, "a", "b")
}

func TestBoard_SetSort(t *testing.T) {
	b := edges.NewBoard()
	b.Apply(added("low", 1))
	b.Apply(added("high", 9))

	b.SetSort(edges.SortEdgePct, edges.Asc)
	snap := b.Snapshot()
	assertOrder(t, snap.Rows, "low", "high")

	if snap.SortField != string(edges.SortEdgePct) || snap.SortDir != string(edges.Asc) {
		t.Errorf("snapshot sort metadata = %s/%s", snap.SortField, snap.SortDir)
	}
}
