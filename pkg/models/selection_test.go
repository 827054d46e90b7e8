package models_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

func fptr(v float64) *float64 { return &v }

func TestSelectionKey(t *testing.T) {
	tests := []struct {
		name     string
		playerID int
		market   string
		line     *float64
		gameID   string
		want     string
	}{
		{"half-point line", 203999, "player_points", fptr(25.5), "12345", "203999|player_points|25.5|12345"},
		{"whole-number line drops decimals", 1, "player_rebounds", fptr(10.0), "7", "1|player_rebounds|10|7"},
		{"nil line", 1, "player_assists", nil, "7", "1|player_assists|-|7"},
		{"padded game id normalized", 1, "player_points", fptr(20.5), "0012345", "1|player_points|20.5|12345"},
		{"empty game id", 1, "player_points", fptr(20.5), "", "1|player_points|20.5|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := models.SelectionKey(tt.playerID, tt.market, tt.line, tt.gameID)
			if got != tt.want {
				t.Errorf("SelectionKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectionKey_StableAcrossStatChanges(t *testing.T) {
	row := models.ProfileRow{
		PlayerID: 203999,
		Market:   "player_points",
		Line:     fptr(25.5),
		GameID:   "12345",
		Last10Pct: fptr(70),
	}
	before := models.SelectionKeyForRow(row)

	// Non-identity fields move between refetches; the key must not.
	row.Last10Pct = fptr(80)
	row.HitStreak = 4
	row.InjuryStatus = "questionable"
	after := models.SelectionKeyForRow(row)

	if before != after {
		t.Errorf("key changed across stat refresh: %q vs %q", before, after)
	}
}

func TestSelectionKey_PaddingAgnostic(t *testing.T) {
	a := models.SelectionKey(1, "player_points", fptr(20.5), "0012345")
	b := models.SelectionKey(1, "player_points", fptr(20.5), "12345")
	if a != b {
		t.Errorf("differently-padded game ids produced different keys: %q vs %q", a, b)
	}
}

func TestNormalizeGameID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0012345", "12345"},
		{"12345", "12345"},
		{"000", "0"},
		{"0", "0"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := models.NormalizeGameID(tt.in); got != tt.want {
			t.Errorf("NormalizeGameID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
