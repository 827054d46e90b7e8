package viewstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

// clearDelay bounds how long restored state lingers before it is wiped, so a
// later fresh visit doesn't reapply it.
const clearDelay = 5 * time.Second

// Keeper saves and restores the small filter/sort subset of table state
// across a navigation round trip. Storage failures are logged and swallowed:
// missing state is the normal case, not an error.
type Keeper struct {
	store Store

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewKeeper creates a keeper over the given store.
func NewKeeper(store Store) *Keeper {
	return &Keeper{
		store:  store,
		timers: make(map[string]*time.Timer),
	}
}

// Save serializes the state subset under the session key, called just before
// a navigation that would otherwise discard it.
func (k *Keeper) Save(ctx context.Context, session string, state models.ViewState) {
	payload, err := json.Marshal(state)
	if err != nil {
		fmt.Printf("⚠️  viewstate save marshal failed: %v\n", err)
		return
	}

	if err := k.store.SetItem(ctx, session, string(payload)); err != nil {
		fmt.Printf("⚠️  viewstate save failed for %s: %v\n", session, err)
	}
}

// Load restores saved state if present and schedules its removal after a
// bounded delay. The second return is false when nothing usable was saved.
func (k *Keeper) Load(ctx context.Context, session string) (models.ViewState, bool) {
	payload, err := k.store.GetItem(ctx, session)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			fmt.Printf("⚠️  viewstate load failed for %s: %v\n", session, err)
		}
		return models.ViewState{}, false
	}

	var state models.ViewState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		fmt.Printf("⚠️  viewstate payload corrupt for %s: %v\n", session, err)
		return models.ViewState{}, false
	}

	k.scheduleClear(session)
	return state, true
}

// Clear removes saved state immediately and cancels any pending delayed
// clear.
func (k *Keeper) Clear(ctx context.Context, session string) {
	k.cancelTimer(session)
	if err := k.store.RemoveItem(ctx, session); err != nil {
		fmt.Printf("⚠️  viewstate clear failed for %s: %v\n", session, err)
	}
}

// Stop cancels all pending delayed clears, used on shutdown.
func (k *Keeper) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	for session, timer := range k.timers {
		timer.Stop()
		delete(k.timers, session)
	}
}

func (k *Keeper) scheduleClear(session string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if timer, ok := k.timers[session]; ok {
		timer.Stop()
	}
	k.timers[session] = time.AfterFunc(clearDelay, func() {
		if err := k.store.RemoveItem(context.Background(), session); err != nil {
			fmt.Printf("⚠️  viewstate delayed clear failed for %s: %v\n", session, err)
		}
		k.cancelTimer(session)
	})
}

func (k *Keeper) cancelTimer(session string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if timer, ok := k.timers[session]; ok {
		timer.Stop()
		delete(k.timers, session)
	}
}
