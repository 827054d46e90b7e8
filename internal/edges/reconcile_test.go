package edges_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/prop-table/internal/edges"
	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

func opps(ids ...string) []models.Opportunity {
	out := make([]models.Opportunity, len(ids))
	for i, id := range ids {
		out[i] = models.Opportunity{ID: id}
	}
	return out
}

func ids(rows []models.Opportunity) []string {
	out := make([]string, len(rows))
	for i, o := range rows {
		out[i] = o.ID
	}
	return out
}

func assertOrder(t *testing.T, got []models.Opportunity, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("got %v, want %v", ids(got), want)
		}
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []string
		pinned map[string]int
		want   []string
	}{
		{
			name:   "no pins returns sorted order",
			sorted: []string{"a", "b", "c"},
			pinned: nil,
			want:   []string{"a", "b", "c"},
		},
		{
			name:   "pinned row holds position while others move",
			sorted: []string{"b", "c", "a"}, // a's fresh rank dropped
			pinned: map[string]int{"a": 0},
			want:   []string{"a", "b", "c"},
		},
		{
			name:   "pin in the middle",
			sorted: []string{"c", "a", "b", "d"},
			pinned: map[string]int{"b": 1},
			want:   []string{"c", "b", "a", "d"},
		},
		{
			name:   "multiple pins keep their slots",
			sorted: []string{"d", "c", "b", "a"},
			pinned: map[string]int{"a": 0, "b": 2},
			want:   []string{"a", "d", "b", "c"},
		},
		{
			name:   "pin index beyond the list appends at the end",
			sorted: []string{"a", "b"},
			pinned: map[string]int{"b": 9},
			want:   []string{"a", "b"},
		},
		{
			name:   "pinned id no longer present is ignored",
			sorted: []string{"a", "b"},
			pinned: map[string]int{"gone": 0},
			want:   []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := edges.Reconcile(opps(tt.sorted...), tt.pinned)
			assertOrder(t, got, tt.want...)
		})
	}
}

func TestReconcile_UnpinnedKeepRelativeOrder(t *testing.T) {
	// Whatever slots the pins occupy, unpinned rows flow around them in their
	// freshly-sorted order.
	got := edges.Reconcile(opps("e", "d", "c", "b", "a"), map[string]int{"a": 1, "b": 3})
	assertOrder(t, got, "e", "a", "d", "b", "c")
}
