package oddsmath

import (
	"fmt"
	"math"
)

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}

	return (100.0 / float64(-american)) + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds
// Decimal 2.50 → American +150
// Decimal 1.67 → American -150
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal < 1.0 {
		return 0, fmt.Errorf("invalid decimal odds: must be >= 1.0")
	}

	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}

	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// AmericanToImpliedProbability converts American odds to implied probability
// +100 → 0.50, -200 → 0.667
func AmericanToImpliedProbability(american int) (float64, error) {
	decimal, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}

	return 1.0 / decimal, nil
}

// ProbabilityToAmerican converts a fair probability to American odds
func ProbabilityToAmerican(probability float64) (int, error) {
	if probability <= 0 || probability >= 1 {
		return 0, fmt.Errorf("invalid probability: must be between 0 and 1")
	}

	return DecimalToAmerican(1.0 / probability)
}

// EdgePercent computes the percentage advantage of an offered price over a
// fair probability: ((fairProb / impliedProb) - 1) * 100. Positive = +EV.
func EdgePercent(offeredAmerican int, fairProbability float64) (float64, error) {
	impliedProb, err := AmericanToImpliedProbability(offeredAmerican)
	if err != nil {
		return 0, err
	}
	if impliedProb == 0 {
		return 0, fmt.Errorf("implied probability is zero")
	}

	return ((fairProbability / impliedProb) - 1.0) * 100.0, nil
}

// BetterPrice reports whether American odds a pay out more than b for the
// same outcome. +120 beats +110; -105 beats -115; any positive beats any
// negative.
func BetterPrice(a, b int) bool {
	da, errA := AmericanToDecimal(a)
	db, errB := AmericanToDecimal(b)
	if errA != nil || errB != nil {
		return errB != nil && errA == nil
	}
	return da > db
}
