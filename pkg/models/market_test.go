package models_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

func TestKindForMarket(t *testing.T) {
	tests := []struct {
		market string
		want   models.MarketKind
	}{
		{"player_points", models.MarketNumericLine},
		{"player_threes", models.MarketNumericLine},
		{"player_double_double", models.MarketBinary},
		{"player_triple_double", models.MarketBinary},
		{"player_first_basket", models.MarketBinary},
		// Unregistered markets default to numeric-line; a name that merely
		// sounds binary is not classified by substring.
		{"player_double_digit_scoring", models.MarketNumericLine},
		{"brand_new_market", models.MarketNumericLine},
	}

	for _, tt := range tests {
		if got := models.KindForMarket(tt.market); got != tt.want {
			t.Errorf("KindForMarket(%q) = %q, want %q", tt.market, got, tt.want)
		}
	}
}
