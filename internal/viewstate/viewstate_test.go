package viewstate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/XavierBriggs/fortuna/services/prop-table/internal/viewstate"
	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

func testState() models.ViewState {
	return models.ViewState{
		Markets:   []string{"player_points"},
		SortField: "last10_pct",
		SortDir:   "desc",
		GameIDs:   []string{"12345"},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := viewstate.NewMemoryStore()

	if _, err := store.GetItem(ctx, "missing"); !errors.Is(err, viewstate.ErrNotFound) {
		t.Errorf("missing key error = %v, want ErrNotFound", err)
	}

	if err := store.SetItem(ctx, "k", "v"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	got, err := store.GetItem(ctx, "k")
	if err != nil || got != "v" {
		t.Errorf("GetItem = %q, %v", got, err)
	}

	if err := store.RemoveItem(ctx, "k"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if _, err := store.GetItem(ctx, "k"); !errors.Is(err, viewstate.ErrNotFound) {
		t.Errorf("removed key error = %v, want ErrNotFound", err)
	}
}

func TestKeeper_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	k := viewstate.NewKeeper(viewstate.NewMemoryStore())
	defer k.Stop()

	k.Save(ctx, "session-1", testState())

	got, ok := k.Load(ctx, "session-1")
	if !ok {
		t.Fatal("expected saved state to load")
	}
	if got.SortField != "last10_pct" || len(got.Markets) != 1 || got.Markets[0] != "player_points" {
		t.Errorf("loaded state = %+v", got)
	}
}

func TestKeeper_LoadMissingIsSilent(t *testing.T) {
	k := viewstate.NewKeeper(viewstate.NewMemoryStore())
	defer k.Stop()

	if _, ok := k.Load(context.Background(), "never saved"); ok {
		t.Error("missing state must load as not-found, not as an error")
	}
}

func TestKeeper_Clear(t *testing.T) {
	ctx := context.Background()
	k := viewstate.NewKeeper(viewstate.NewMemoryStore())
	defer k.Stop()

	k.Save(ctx, "session-1", testState())
	k.Clear(ctx, "session-1")

	if _, ok := k.Load(ctx, "session-1"); ok {
		t.Error("cleared state must not load")
	}
}

func TestKeeper_CorruptPayloadLoadsAsMissing(t *testing.T) {
	ctx := context.Background()
	store := viewstate.NewMemoryStore()
	k := viewstate.NewKeeper(store)
	defer k.Stop()

	store.SetItem(ctx, "session-1", "{not json")

	if _, ok := k.Load(ctx, "session-1"); ok {
		t.Error("corrupt payloads must be treated as missing")
	}
}

// sessions are isolated from each other
func TestKeeper_SessionIsolation(t *testing.T) {
	ctx := context.Background()
	k := viewstate.NewKeeper(viewstate.NewMemoryStore())
	defer k.Stop()

	k.Save(ctx, "session-1", testState())

	if _, ok := k.Load(ctx, "session-2"); ok {
		t.Error("state saved under one session must not load under another")
	}
}
