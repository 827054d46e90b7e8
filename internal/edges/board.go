package edges

import (
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

// Board holds the live edge table: every known opportunity, the per-refresh
// added/changed/stale markers, user-expanded rows with their pinned indices,
// and the active sort. Applying a live event and taking a snapshot are the
// only entry points, so all ordering decisions happen in one place.
type Board struct {
	mu sync.Mutex

	opps    map[string]models.Opportunity
	added   map[string]bool
	stale   map[string]bool
	changed map[string]models.ChangeDirection

	// expanded maps an expanded opportunity id to the index it last rendered
	// at. The entry exists only while the row is expanded; collapsing
	// releases the pin.
	expanded map[string]int

	// hidden ids are filtered from snapshots (user "hide" actions).
	hidden map[string]bool

	sortField SortField
	sortDir   Direction

	lastOrder []string
}

// NewBoard creates an empty board with the default sort.
func NewBoard() *Board {
	return &Board{
		opps:      make(map[string]models.Opportunity),
		added:     make(map[string]bool),
		stale:     make(map[string]bool),
		changed:   make(map[string]models.ChangeDirection),
		expanded:  make(map[string]int),
		hidden:    make(map[string]bool),
		sortField: DefaultSortField,
		sortDir:   DefaultDirection,
	}
}

// Apply merges one live stream event. Events are idempotent per id: replaying
// the same event leaves the board unchanged.
func (b *Board) Apply(ev models.EdgeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := ev.Opportunity.ID
	if id == "" {
		return
	}

	switch ev.Type {
	case models.EdgeEventAdded:
		b.opps[id] = ev.Opportunity
		b.added[id] = true
		delete(b.stale, id)
		delete(b.changed, id)

	case models.EdgeEventChanged:
		b.opps[id] = ev.Opportunity
		if ev.Direction != "" {
			b.changed[id] = ev.Direction
		}
		delete(b.stale, id)
		delete(b.added, id)

	case models.EdgeEventStale:
		// Stale rows stay in the list; the caller de-emphasizes them.
		if _, ok := b.opps[id]; ok {
			b.stale[id] = true
		}
	}
}

// SetSort changes the active sort for subsequent snapshots.
func (b *Board) SetSort(field SortField, dir Direction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sortField = field
	b.sortDir = dir
}

// Expand pins an opportunity at its current rendered index. Unknown ids are
// ignored. A known row that hasn't rendered yet (no snapshot taken, or the
// row was hidden) is pinned at the end of the current order; the next
// snapshot refreshes the pin to wherever the row lands.
func (b *Board) Expand(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.opps[id]; !ok {
		return
	}

	for idx, orderedID := range b.lastOrder {
		if orderedID == id {
			b.expanded[id] = idx
			return
		}
	}
	b.expanded[id] = len(b.lastOrder)
}

// Collapse releases an expanded row's pin; the next snapshot places it at its
// natural sort rank.
func (b *Board) Collapse(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.expanded, id)
}

// SetHidden replaces the hidden-id set (sourced from persisted user actions).
func (b *Board) SetHidden(ids []string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hidden = make(map[string]bool, len(ids))
	for _, id := range ids {
		b.hidden[id] = true
	}
}

// Snapshot produces the reconciled, ordered edge table. Expanded rows are
// held at their recorded index; afterwards their recorded index is refreshed
// to wherever they actually landed so the pin survives the next refresh.
func (b *Board) Snapshot() models.EdgeSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	visible := make([]models.Opportunity, 0, len(b.opps))
	for id, opp := range b.opps {
		if b.hidden[id] {
			continue
		}
		visible = append(visible, opp)
	}

	sorted := SortOpportunities(visible, b.sortField, b.sortDir)

	pins := make(map[string]int, len(b.expanded))
	for id, idx := range b.expanded {
		pins[id] = idx
	}
	rows := Reconcile(sorted, pins)

	b.lastOrder = make([]string, len(rows))
	for i, opp := range rows {
		b.lastOrder[i] = opp.ID
		if _, ok := b.expanded[opp.ID]; ok {
			b.expanded[opp.ID] = i
		}
	}

	snap := models.EdgeSnapshot{
		Rows:      rows,
		SortField: string(b.sortField),
		SortDir:   string(b.sortDir),
		RefreshAt: time.Now(),
	}
	for id := range b.added {
		snap.Added = append(snap.Added, id)
	}
	for id := range b.stale {
		snap.Stale = append(snap.Stale, id)
	}
	if len(b.changed) > 0 {
		snap.Changed = make(map[string]models.ChangeDirection, len(b.changed))
		for id, dir := range b.changed {
			snap.Changed[id] = dir
		}
	}

	return snap
}

// ClearMarkers drops the added/changed markers once a refresh cycle has been
// delivered. Stale markers persist until the row comes back.
func (b *Board) ClearMarkers() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.added = make(map[string]bool)
	b.changed = make(map[string]models.ChangeDirection)
}
