package table

import (
	"strconv"
	"strings"
	"sync"
)

// Fetch tiers. Sizes are tuning parameters; what matters is that they form a
// strictly increasing sequence and that full-data views always get the top
// tier.
const (
	PageSizeInitial  = 50
	PageSizeUpgraded = 250
	PageSizeFull     = 1000

	// DisplayPageSize is how many rows one "load more" click reveals from
	// rows already fetched, before any network escalation.
	DisplayPageSize = 20
)

// ViewInputs are the filter/sort/view inputs that drive one table render.
type ViewInputs struct {
	Date        string
	Markets     []string
	AllMarkets  []string
	GameIDs     []string
	Positions   []string
	TopMatchups int
	Search      string
	HideNoOdds  bool
	Sort        SortField
	Dir         Direction

	// DrillDown is set when a single player's detail view is open and the
	// table must contain every row for that player.
	DrillDown bool
	PlayerID  int
}

// RequiresFullData reports whether the view cannot tolerate a partial fetch:
// drill-down, an active search, an explicit game filter, or a non-default
// sort all need the complete row set to be correct.
func (v ViewInputs) RequiresFullData() bool {
	if v.DrillDown {
		return true
	}
	if strings.TrimSpace(v.Search) != "" {
		return true
	}
	if len(v.GameIDs) > 0 {
		return true
	}
	return v.Sort != DefaultSortField || v.Dir != DefaultDirection
}

// QueryKey identifies the logical query these inputs describe. Any change to
// it invalidates background-upgrade and reveal state.
func (v ViewInputs) QueryKey() string {
	parts := []string{
		v.Date,
		strings.Join(v.Markets, ","),
		strings.Join(v.GameIDs, ","),
		strings.Join(v.Positions, ","),
		strconv.Itoa(v.TopMatchups),
		strings.TrimSpace(strings.ToLower(v.Search)),
		string(v.Sort),
		string(v.Dir),
		strconv.Itoa(v.PlayerID),
		strconv.FormatBool(v.DrillDown),
	}
	return strings.Join(parts, "|")
}

// Paginator decides fetch limits and manages load-more state for one table
// view. It is safe for concurrent use.
type Paginator struct {
	mu       sync.Mutex
	queryKey string
	upgraded bool
	reveal   int
}

// NewPaginator returns a paginator in its initial state.
func NewPaginator() *Paginator {
	return &Paginator{reveal: DisplayPageSize}
}

// Sync aligns the paginator with the current inputs. A query-key change
// resets the upgrade flag and the reveal count, since state earned under the
// old filters no longer applies. Returns true when a reset happened.
func (p *Paginator) Sync(v ViewInputs) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := v.QueryKey()
	if key == p.queryKey {
		return false
	}

	p.queryKey = key
	p.upgraded = false
	p.reveal = DisplayPageSize
	return true
}

// Limit picks the fetch tier for the current view state. First match wins:
// full-data views take the top tier, a completed background upgrade holds the
// middle tier, everything else starts small for a fast first paint.
func (p *Paginator) Limit(v ViewInputs) int {
	if v.RequiresFullData() {
		return PageSizeFull
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.upgraded {
		return PageSizeUpgraded
	}
	return PageSizeInitial
}

// Reveal returns how many filtered rows the view currently shows.
func (p *Paginator) Reveal() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reveal
}

// LoadMore advances pagination. While fetched-but-hidden rows remain it only
// bumps the reveal count (no network). Once the fetched set is exhausted it
// reports that the caller should escalate to the next fetch tier.
func (p *Paginator) LoadMore(available int) (escalate bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.reveal < available {
		p.reveal += DisplayPageSize
		return false
	}
	return true
}

// CurrentKey returns the query key the paginator is synced to. Deferred work
// armed under an older key compares against it before acting.
func (p *Paginator) CurrentKey() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queryKey
}

// MarkUpgraded records that the background upgrade (or a load-more
// escalation) fetched the middle tier for the current query key.
func (p *Paginator) MarkUpgraded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.upgraded = true
}

// Upgraded reports whether the current query key has been upgraded.
func (p *Paginator) Upgraded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.upgraded
}
