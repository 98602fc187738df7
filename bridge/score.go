package bridge

import (
	"math"

	"github.com/wippyai/membridge/errors"
)

// score computes the performance score of a research record:
//
//	signals × strength × ln(liquidity)/10 × (1 + opportunities/100)
//
// Pure function of the numeric fields; text fields are never read. All
// factors are non-negative for valid input, so a valid score is always
// finite and non-negative.
//
// ln is undefined for liquidity ≤ 1 in any useful sense here (zero or
// negative factor), so such input is rejected instead of letting NaN or a
// negative score escape and collide with the sentinel range.
func score(r *Research) (float64, error) {
	if r.Signals < 0 || r.Opportunities < 0 || r.Strength < 0 {
		return 0, errors.InvalidData(errors.PhaseValidate, []string{"research"},
			"signals, opportunities, and strength must be non-negative")
	}
	if r.Liquidity <= 1 {
		return 0, errors.InvalidData(errors.PhaseValidate, []string{"research", "max-liquidity"},
			"liquidity must exceed 1 for the logarithmic factor")
	}
	if math.IsNaN(r.Strength) || math.IsInf(r.Strength, 0) {
		return 0, errors.InvalidData(errors.PhaseValidate, []string{"research", "signal-strength"},
			"strength must be finite")
	}

	base := float64(r.Signals) * r.Strength
	liquidityFactor := math.Log(float64(r.Liquidity)) / 10.0
	opportunityMultiplier := 1.0 + float64(r.Opportunities)/100.0

	return base * liquidityFactor * opportunityMultiplier, nil
}
