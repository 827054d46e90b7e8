package table

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/internal/oddscache"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/providers/stats"
	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

// StatsFetcher is the row-fetching collaborator.
type StatsFetcher interface {
	FetchProfiles(ctx context.Context, q stats.ProfileQuery) (*models.ProfileResponse, error)
}

// upgradeDelay gates the automatic background fetch of the middle tier. UX
// pacing, not correctness; cancelled when inputs change or the controller
// stops.
const upgradeDelay = 3 * time.Second

// ViewResult is one rendered table state.
type ViewResult struct {
	Rows          []models.ProfileRow        `json:"rows"`
	TotalCount    int                        `json:"total_count"`
	FilteredCount int                        `json:"filtered_count"`
	Odds          map[string]models.LineOdds `json:"odds"`
	OddsLoading   bool                       `json:"odds_loading"`
	HasMore       bool                       `json:"has_more"`
	Date          string                     `json:"date,omitempty"`

	// MarketKinds tells the consumer how to label each visible market's odds
	// sides (over/under vs yes/no).
	MarketKinds map[string]models.MarketKind `json:"market_kinds,omitempty"`

	// FetchError is the non-fatal error of the latest fetch. Rows then hold
	// the last known good set rather than going blank.
	FetchError string `json:"fetch_error,omitempty"`
}

// Controller merges the independently-paced data sources into one consistent
// table: it picks fetch tiers, keeps the last good row set across failed
// refreshes, discards superseded responses, declares odds needs, and applies
// the filter pipeline and sort.
type Controller struct {
	stats     StatsFetcher
	odds      *oddscache.Cache
	paginator *Paginator

	mu           sync.Mutex
	seq          uint64
	rows         []models.ProfileRow
	count        int
	date         string
	fetchedLimit int
	fetchErr     error
	upgradeTimer *time.Timer
}

// NewController wires the controller to its collaborators.
func NewController(statsClient StatsFetcher, odds *oddscache.Cache) *Controller {
	return &Controller{
		stats:     statsClient,
		odds:      odds,
		paginator: NewPaginator(),
	}
}

// View renders the table for the given inputs: sync pagination state, fetch
// if the query or tier changed, then filter, request odds, sort, and cut to
// the reveal count.
func (c *Controller) View(ctx context.Context, inputs ViewInputs) ViewResult {
	reset := c.paginator.Sync(inputs)
	limit := c.paginator.Limit(inputs)

	c.mu.Lock()
	needFetch := reset || c.rows == nil || c.fetchedLimit != limit
	if reset && c.upgradeTimer != nil {
		c.upgradeTimer.Stop()
		c.upgradeTimer = nil
	}
	c.mu.Unlock()

	if needFetch {
		c.fetch(ctx, inputs, limit)
	}

	c.maybeScheduleUpgrade(inputs)

	return c.render(ctx, inputs)
}

// LoadMore advances pagination: reveal already-fetched rows first, escalate
// to the next fetch tier only when the fetched set is exhausted.
func (c *Controller) LoadMore(ctx context.Context, inputs ViewInputs) ViewResult {
	c.paginator.Sync(inputs)

	filtered := c.filtered(inputs)
	if c.paginator.LoadMore(len(filtered)) {
		next := PageSizeUpgraded
		if c.paginator.Upgraded() || c.paginator.Limit(inputs) >= PageSizeUpgraded {
			next = PageSizeFull
		}
		c.mu.Lock()
		alreadyFull := c.fetchedLimit >= next
		c.mu.Unlock()
		var fetchErr error
		if !alreadyFull {
			fetchErr = c.fetch(ctx, inputs, next)
		}
		// A failed escalation stays unmarked so the next load-more retries
		// the same tier instead of skipping past it.
		if next == PageSizeUpgraded && fetchErr == nil {
			c.paginator.MarkUpgraded()
		}
	}

	return c.render(ctx, inputs)
}

// Stop cancels any pending background upgrade.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.upgradeTimer != nil {
		c.upgradeTimer.Stop()
		c.upgradeTimer = nil
	}
}

// fetch performs one stats request with latest-wins sequencing: a response
// that arrives after a newer request was issued is discarded, and a failed
// fetch keeps the previous row set (stale-while-error). The returned error is
// the fetch failure, nil for success and for superseded responses.
func (c *Controller) fetch(ctx context.Context, inputs ViewInputs, limit int) error {
	c.mu.Lock()
	c.seq++
	mySeq := c.seq
	c.mu.Unlock()

	query := stats.ProfileQuery{
		Date:     inputs.Date,
		Market:   strings.Join(inputs.Markets, ","),
		Search:   strings.TrimSpace(inputs.Search),
		Sort:     string(inputs.Sort),
		SortDir:  string(inputs.Dir),
		Limit:    limit,
		PlayerID: inputs.PlayerID,
	}

	resp, err := c.stats.FetchProfiles(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if mySeq != c.seq {
		// A newer request supersedes this response.
		return nil
	}

	if err != nil {
		fmt.Printf("⚠️  profile fetch failed (limit=%d): %v\n", limit, err)
		c.fetchErr = err
		return err
	}

	c.rows = resp.Rows
	c.count = resp.Count
	c.date = resp.Meta.Date
	c.fetchedLimit = limit
	c.fetchErr = nil
	return nil
}

// maybeScheduleUpgrade arms the one-shot background upgrade to the middle
// tier for small initial views.
func (c *Controller) maybeScheduleUpgrade(inputs ViewInputs) {
	if inputs.RequiresFullData() || c.paginator.Upgraded() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.upgradeTimer != nil {
		return
	}

	key := inputs.QueryKey()
	c.upgradeTimer = time.AfterFunc(upgradeDelay, func() {
		c.mu.Lock()
		c.upgradeTimer = nil
		c.mu.Unlock()
		c.runScheduledUpgrade(key, inputs)
	})
}

// runScheduledUpgrade is the deferred body of the background upgrade. The
// inputs were captured when the timer was armed, so it acts only while the
// paginator is still on that query key, and re-checks before marking: a key
// change mid-fetch means the response belonged to a view that no longer
// exists.
func (c *Controller) runScheduledUpgrade(key string, inputs ViewInputs) {
	if c.paginator.Upgraded() || c.paginator.CurrentKey() != key {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.fetch(ctx, inputs, PageSizeUpgraded); err != nil {
		return
	}
	if c.paginator.CurrentKey() != key {
		return
	}
	c.paginator.MarkUpgraded()
}

// filtered applies the filter pipeline to the cached row set.
func (c *Controller) filtered(inputs ViewInputs) []models.ProfileRow {
	c.mu.Lock()
	rows := c.rows
	c.mu.Unlock()

	return FilterRows(rows, FilterParams{
		Markets:     inputs.Markets,
		AllMarkets:  inputs.AllMarkets,
		GameIDs:     inputs.GameIDs,
		Positions:   inputs.Positions,
		TopMatchups: inputs.TopMatchups,
		Search:      inputs.Search,
		HideNoOdds:  inputs.HideNoOdds,
	}, c.odds)
}

// render produces the final ordered, revealed view.
func (c *Controller) render(ctx context.Context, inputs ViewInputs) ViewResult {
	filtered := c.filtered(inputs)

	selections := make([]models.Selection, 0, len(filtered))
	keys := make([]string, 0, len(filtered))
	for _, row := range filtered {
		key := models.SelectionKeyForRow(row)
		selections = append(selections, models.Selection{Key: key, Line: row.Line})
		keys = append(keys, key)
	}
	c.odds.Request(ctx, selections)

	sorted := SortRows(filtered, inputs.Sort, inputs.Dir, c.odds)

	reveal := c.paginator.Reveal()
	visible := sorted
	if len(sorted) > reveal {
		visible = sorted[:reveal]
	}

	c.mu.Lock()
	total := c.count
	date := c.date
	fetchErr := c.fetchErr
	fetchedLimit := c.fetchedLimit
	c.mu.Unlock()

	kinds := make(map[string]models.MarketKind, len(inputs.Markets))
	for _, m := range inputs.Markets {
		kinds[m] = models.KindForMarket(m)
	}

	result := ViewResult{
		Rows:          visible,
		MarketKinds:   kinds,
		TotalCount:    total,
		FilteredCount: len(sorted),
		Odds:          c.odds.Snapshot(keys),
		OddsLoading:   c.odds.Loading(),
		HasMore:       len(visible) < len(sorted) || fetchedLimit < PageSizeFull && fetchedLimit < total,
		Date:          date,
	}
	if fetchErr != nil {
		result.FetchError = fetchErr.Error()
	}
	return result
}
