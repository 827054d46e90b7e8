package table_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/internal/oddscache"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/providers/stats"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/table"
	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

type fakeStats struct {
	mu    sync.Mutex
	rows  []models.ProfileRow
	fail  bool
	calls []stats.ProfileQuery
}

func (f *fakeStats) FetchProfiles(ctx context.Context, q stats.ProfileQuery) (*models.ProfileResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, q)
	if f.fail {
		return nil, errors.New("stats service unavailable")
	}

	rows := f.rows
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return &models.ProfileResponse{
		Rows:  rows,
		Count: len(f.rows),
		Meta:  models.ProfileMeta{Date: q.Date},
	}, nil
}

func (f *fakeStats) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeStats) lastLimit() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return 0
	}
	return f.calls[len(f.calls)-1].Limit
}

type fakeOddsFeed struct{}

func (fakeOddsFeed) FetchOdds(ctx context.Context, selections []models.Selection) (map[string]models.LineOdds, error) {
	return map[string]models.LineOdds{}, nil
}

// upcomingRows builds n rows for a game two days out, so the default
// hide-started stage keeps them all.
func upcomingRows(n int) []models.ProfileRow {
	date := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	rows := make([]models.ProfileRow, n)
	for i := range rows {
		rows[i] = models.ProfileRow{
			PlayerID:   i + 1,
			PlayerName: fmt.Sprintf("player %d", i+1),
			Market:     "player_points",
			GameID:     "12345",
			Line:       fptr(20.5),
			Last10Pct:  fptr(float64(i)),
			GameDate:   date,
			GameStatus: "7:30 pm ET",
		}
	}
	return rows
}

func newTestController(src *fakeStats) *table.Controller {
	return table.NewController(src, oddscache.New(fakeOddsFeed{}))
}

func TestControllerView(t *testing.T) {
	src := &fakeStats{rows: upcomingRows(60)}
	c := newTestController(src)
	defer c.Stop()

	result := c.View(context.Background(), defaultInputs())

	if got := src.lastLimit(); got != table.PageSizeInitial {
		t.Errorf("initial fetch limit = %d, want %d", got, table.PageSizeInitial)
	}
	if len(result.Rows) != table.DisplayPageSize {
		t.Errorf("visible rows = %d, want %d", len(result.Rows), table.DisplayPageSize)
	}
	if !result.HasMore {
		t.Error("expected HasMore with rows beyond the reveal count")
	}
	if result.FilteredCount != 50 {
		t.Errorf("filtered count = %d, want 50 (fetched tier)", result.FilteredCount)
	}
	if result.TotalCount != 60 {
		t.Errorf("total count = %d, want 60", result.TotalCount)
	}
}

func TestControllerView_RepeatDoesNotRefetch(t *testing.T) {
	src := &fakeStats{rows: upcomingRows(30)}
	c := newTestController(src)
	defer c.Stop()

	inputs := defaultInputs()
	c.View(context.Background(), inputs)
	c.View(context.Background(), inputs)

	if got := src.callCount(); got != 1 {
		t.Errorf("identical views fetched %d times, want 1", got)
	}
}

func TestControllerView_FullDataInputsFetchTopTier(t *testing.T) {
	src := &fakeStats{rows: upcomingRows(10)}
	c := newTestController(src)
	defer c.Stop()

	inputs := defaultInputs()
	inputs.Search = "player 3"
	c.View(context.Background(), inputs)

	if got := src.lastLimit(); got != table.PageSizeFull {
		t.Errorf("search view fetch limit = %d, want %d", got, table.PageSizeFull)
	}
}

func TestControllerLoadMore_RevealsThenEscalates(t *testing.T) {
	src := &fakeStats{rows: upcomingRows(50)}
	c := newTestController(src)
	defer c.Stop()

	inputs := defaultInputs()
	c.View(context.Background(), inputs)
	fetchesAfterView := src.callCount()

	// Two load-mores reveal the remaining fetched rows without touching the
	// network: 20 -> 40 -> 60 against 50 available.
	result := c.LoadMore(context.Background(), inputs)
	if src.callCount() != fetchesAfterView {
		t.Fatal("revealing fetched rows must not refetch")
	}
	if len(result.Rows) != 2*table.DisplayPageSize {
		t.Fatalf("revealed rows = %d, want %d", len(result.Rows), 2*table.DisplayPageSize)
	}
	c.LoadMore(context.Background(), inputs)
	if src.callCount() != fetchesAfterView {
		t.Fatal("revealing fetched rows must not refetch")
	}

	// The fetched set is exhausted now; the next load-more escalates.
	c.LoadMore(context.Background(), inputs)
	if src.callCount() != fetchesAfterView+1 {
		t.Fatalf("exhausted load-more should escalate with one fetch, got %d calls", src.callCount())
	}
	if got := src.lastLimit(); got != table.PageSizeUpgraded {
		t.Errorf("escalation fetch limit = %d, want %d", got, table.PageSizeUpgraded)
	}
}

func TestControllerLoadMore_FailedEscalationRetriesSameTier(t *testing.T) {
	src := &fakeStats{rows: upcomingRows(50)}
	c := newTestController(src)
	defer c.Stop()

	inputs := defaultInputs()
	c.View(context.Background(), inputs)
	c.LoadMore(context.Background(), inputs)
	c.LoadMore(context.Background(), inputs)

	// The fetched set is exhausted; this load-more escalates, and the fetch
	// fails.
	src.mu.Lock()
	src.fail = true
	src.mu.Unlock()

	result := c.LoadMore(context.Background(), inputs)
	if result.FetchError == "" {
		t.Error("expected the escalation failure to surface")
	}
	if got := src.lastLimit(); got != table.PageSizeUpgraded {
		t.Fatalf("failed escalation limit = %d, want %d", got, table.PageSizeUpgraded)
	}

	// The service recovers. The next load-more must retry the middle tier
	// rather than treating the failed upgrade as done and skipping to the
	// top tier.
	src.mu.Lock()
	src.fail = false
	src.mu.Unlock()

	c.LoadMore(context.Background(), inputs)
	if got := src.lastLimit(); got != table.PageSizeUpgraded {
		t.Errorf("retry fetch limit = %d, want %d", got, table.PageSizeUpgraded)
	}
}

func TestControllerView_StaleWhileError(t *testing.T) {
	src := &fakeStats{rows: upcomingRows(30)}
	c := newTestController(src)
	defer c.Stop()

	inputs := defaultInputs()
	first := c.View(context.Background(), inputs)
	if len(first.Rows) == 0 {
		t.Fatal("expected rows from the healthy fetch")
	}

	// Change the query so a refetch happens, and make it fail.
	src.mu.Lock()
	src.fail = true
	src.mu.Unlock()

	inputs.Date = "2099-01-01"
	second := c.View(context.Background(), inputs)

	if second.FetchError == "" {
		t.Error("expected the fetch error to surface")
	}
	if len(second.Rows) == 0 {
		t.Error("failed refresh must keep the previous rows visible")
	}
}
