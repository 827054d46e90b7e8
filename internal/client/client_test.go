package client_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/prop-table/internal/client"
	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

func testSnapshot() models.EdgeSnapshot {
	return models.EdgeSnapshot{
		Rows: []models.Opportunity{
			{ID: "1", SportKey: "basketball_nba", MarketKey: "player_points", FilterName: "main"},
			{ID: "2", SportKey: "basketball_nba", MarketKey: "player_rebounds", FilterName: "main"},
			{ID: "3", SportKey: "icehockey_nhl", MarketKey: "player_points", FilterName: "nhl screen"},
		},
		Added: []string{"1", "3"},
		Stale: []string{"2"},
		Changed: map[string]models.ChangeDirection{
			"1": models.ChangeUp,
			"3": models.ChangeDown,
		},
	}
}

func TestFilterSnapshot_NoFilterPassesThrough(t *testing.T) {
	c := client.NewClient("test", nil, nil)

	got := c.FilterSnapshot(testSnapshot())
	if len(got.Rows) != 3 {
		t.Errorf("unfiltered client should receive all rows, got %d", len(got.Rows))
	}
}

func TestFilterSnapshot_NarrowsRowsAndMarkers(t *testing.T) {
	c := client.NewClient("test", nil, nil)
	c.SetFilter(models.SubscriptionFilter{Sports: []string{"basketball_nba"}})

	got := c.FilterSnapshot(testSnapshot())

	if len(got.Rows) != 2 || got.Rows[0].ID != "1" || got.Rows[1].ID != "2" {
		t.Fatalf("expected NBA rows only, got %+v", got.Rows)
	}
	if len(got.Added) != 1 || got.Added[0] != "1" {
		t.Errorf("added markers = %v, want [1]", got.Added)
	}
	if len(got.Stale) != 1 || got.Stale[0] != "2" {
		t.Errorf("stale markers = %v, want [2]", got.Stale)
	}
	if _, ok := got.Changed["3"]; ok {
		t.Error("changed markers must be trimmed to surviving rows")
	}
	if got.Changed["1"] != models.ChangeUp {
		t.Errorf("surviving changed marker lost: %v", got.Changed)
	}
}

func TestFilterSnapshot_MarketAndFilterDimensions(t *testing.T) {
	tests := []struct {
		name   string
		filter models.SubscriptionFilter
		want   []string
	}{
		{"by market", models.SubscriptionFilter{Markets: []string{"player_points"}}, []string{"1", "3"}},
		{"by saved filter", models.SubscriptionFilter{Filters: []string{"nhl screen"}}, []string{"3"}},
		{"intersection", models.SubscriptionFilter{
			Sports:  []string{"basketball_nba"},
			Markets: []string{"player_points"},
		}, []string{"1"}},
		{"no match", models.SubscriptionFilter{Sports: []string{"soccer_epl"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := client.NewClient("test", nil, nil)
			c.SetFilter(tt.filter)

			got := c.FilterSnapshot(testSnapshot())
			if len(got.Rows) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(got.Rows), len(tt.want))
			}
			for i, id := range tt.want {
				if got.Rows[i].ID != id {
					t.Errorf("row %d = %s, want %s", i, got.Rows[i].ID, id)
				}
			}
		})
	}
}

func TestTrySend_ReportsFullBuffer(t *testing.T) {
	c := client.NewClient("test", nil, nil)

	// Fill the buffer; the last send must fail instead of blocking.
	msg := models.ServerMessage{Type: models.MessageTypeHeartbeat}
	for i := 0; ; i++ {
		if !c.TrySend(msg) {
			if i == 0 {
				t.Fatal("first send should fit in the buffer")
			}
			return
		}
		if i > 1000 {
			t.Fatal("TrySend never reported a full buffer")
		}
	}
}
