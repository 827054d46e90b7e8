package oddscache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

// Fetcher retrieves odds for a batch of selections.
type Fetcher interface {
	FetchOdds(ctx context.Context, selections []models.Selection) (map[string]models.LineOdds, error)
}

// firstWaveSize is how many selections are fetched immediately; the remainder
// goes out in a background wave so the first paint isn't blocked on the full
// board.
const firstWaveSize = 25

// backgroundWaveTimeout bounds the detached background wave, which outlives
// the request that declared the selections.
const backgroundWaveTimeout = 30 * time.Second

// Cache decouples odds loading latency from row rendering. Each selection key
// is in one of three states: never requested, requested but in flight, or
// resolved (with or without prices). Once Loading reports false every
// requested key is resolved.
type Cache struct {
	mu       sync.RWMutex
	fetcher  Fetcher
	odds     map[string]models.LineOdds
	resolved map[string]bool
	pending  int

	// onKeysWithOdds receives the sorted set of keys that resolved with at
	// least one priced side. Re-emitted only when the set actually changes.
	onKeysWithOdds func([]string)
	lastEmitted    []string
}

// New creates a cache backed by the given fetcher.
func New(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher:  fetcher,
		odds:     make(map[string]models.LineOdds),
		resolved: make(map[string]bool),
	}
}

// OnKeysWithOdds registers the consumer notified when the set of keys holding
// real odds changes. Sibling views (the game sidebar) use this to stay
// consistent with the main table.
func (c *Cache) OnKeysWithOdds(fn func([]string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onKeysWithOdds = fn
}

// Request declares the selections the view currently needs. Already-resolved
// keys are skipped; the rest are fetched in a first wave plus a background
// wave. Safe to call repeatedly with overlapping key sets.
func (c *Cache) Request(ctx context.Context, selections []models.Selection) {
	c.mu.Lock()
	var todo []models.Selection
	seen := make(map[string]bool, len(selections))
	for _, sel := range selections {
		if seen[sel.Key] || c.resolved[sel.Key] {
			continue
		}
		seen[sel.Key] = true
		todo = append(todo, sel)
	}
	if len(todo) == 0 {
		c.mu.Unlock()
		return
	}

	first := todo
	var rest []models.Selection
	if len(todo) > firstWaveSize {
		first = todo[:firstWaveSize]
		rest = todo[firstWaveSize:]
	}

	c.pending += len(first) + len(rest)
	c.mu.Unlock()

	c.fetchWave(ctx, first)
	if len(rest) > 0 {
		// The caller's context dies with its request; the background wave
		// must not, or the remaining keys would fail on a cancellation
		// artifact rather than a real answer.
		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundWaveTimeout)
		go func() {
			defer cancel()
			c.fetchWave(bg, rest)
		}()
	}
}

// fetchWave resolves one batch. A failed fetch still resolves its keys (as
// "no odds") so Loading settles and consumers aren't left ambiguous — except
// on context cancellation, which is not an answer about the market: those keys
// go back to unrequested so a later Request retries them.
func (c *Cache) fetchWave(ctx context.Context, selections []models.Selection) {
	result, err := c.fetcher.FetchOdds(ctx, selections)
	canceled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	if err != nil {
		fmt.Printf("⚠️  odds fetch failed for %d selections: %v\n", len(selections), err)
	}

	c.mu.Lock()
	for _, sel := range selections {
		if odds, ok := result[sel.Key]; ok {
			c.odds[sel.Key] = odds
		}
		if !canceled {
			c.resolved[sel.Key] = true
		}
	}
	c.pending -= len(selections)
	emit, keys := c.keysWithOddsChangedLocked()
	fn := c.onKeysWithOdds
	c.mu.Unlock()

	if emit && fn != nil {
		fn(keys)
	}
}

// Get returns the odds for a key. The second return is false both for keys
// never requested and for keys still in flight.
func (c *Cache) Get(key string) (models.LineOdds, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	odds, ok := c.odds[key]
	if !ok && !c.resolved[key] {
		return models.LineOdds{}, false
	}
	return odds, true
}

// Loading reports whether any requested key is still in flight.
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending > 0
}

// HasPrice reports whether a key resolved with at least one priced side.
func (c *Cache) HasPrice(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.odds[key].HasPrice()
}

// Snapshot returns the resolved odds for the given keys, for response
// assembly. Unresolved keys are omitted.
func (c *Cache) Snapshot(keys []string) map[string]models.LineOdds {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]models.LineOdds, len(keys))
	for _, key := range keys {
		if c.resolved[key] {
			if odds, ok := c.odds[key]; ok {
				out[key] = odds
			}
		}
	}
	return out
}

// keysWithOddsChangedLocked computes the sorted has-odds key set and compares
// it structurally to the last emission. Callers hold c.mu.
func (c *Cache) keysWithOddsChangedLocked() (bool, []string) {
	keys := make([]string, 0, len(c.odds))
	for key, odds := range c.odds {
		if odds.HasPrice() {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	if equalStrings(keys, c.lastEmitted) {
		return false, nil
	}
	c.lastEmitted = keys
	return true, keys
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
