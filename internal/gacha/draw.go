package gacha

import (
	"errors"

	"github.com/xtding233/petgacha/internal/model"
)

var ErrInvalidProb = errors.New("invalid probability p; must be 0..1")

// Draw under p, return if it is hit
// p <=0 => no hit. p>= 1 => must hit. otherwise, rng.Float64() < p
func Draw(p float64, rng RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}

// Weights holds one probability per tier, indexed by model.Rarity.
type Weights [model.NumRarities]float64

// Sum of all tiers.
func (w Weights) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// RollRarity selects a tier for a uniform u in [0,1).
// Tiers are walked rarest first, accumulating weights; the first tier whose
// cumulative threshold exceeds u wins. Tiers with equal thresholds resolve to
// the rarer one. If rounding leaves u uncovered the result is common.
func RollRarity(w Weights, u float64) model.Rarity {
	var cum float64
	for i := model.NumRarities - 1; i >= 0; i-- {
		cum += w[i]
		if u < cum {
			return model.Rarity(i)
		}
	}
	return model.Common
}

// Roll draws u from rng and resolves it with RollRarity.
func Roll(w Weights, rng RandomSource) model.Rarity {
	if rng == nil {
		rng = DefaultRNG()
	}
	return RollRarity(w, rng.Float64())
}
