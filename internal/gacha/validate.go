package gacha

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidWeights = errors.New("invalid rarity weights")

// weightSumTolerance absorbs decimal literals like 0.6+0.3+0.08+0.02.
const weightSumTolerance = 1e-9

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}

// ValidateWeights checks every tier is a probability and the tiers sum to 1.
func ValidateWeights(w Weights) error {
	for i, p := range w {
		if err := validateProb(p); err != nil {
			return fmt.Errorf("%w: tier %d: %v", ErrInvalidWeights, i, err)
		}
	}
	if s := w.Sum(); math.Abs(s-1) > weightSumTolerance {
		return fmt.Errorf("%w: sum is %v, want 1", ErrInvalidWeights, s)
	}
	return nil
}
