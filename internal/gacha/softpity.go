package gacha

import (
	"errors"

	"github.com/xtding233/petgacha/internal/model"
)

// Easing specifies how the probability ramps up as we approach pity.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
)

var ErrSoftPityConfig = errors.New("invalid soft pity config")

// SoftPityConfig ramps the legendary weight before the hard pity.
// Example: Pity=50, StartAt=40, TargetProb=0.3 → from pull #40 up to #49
// the legendary weight ramps from the pool's base toward 0.3.
type SoftPityConfig struct {
	StartAt    int     // pulls since last high roll at which the ramp starts
	TargetProb float64 // legendary probability at pull (Pity-1), must be in (0,1)
	Easing     Easing  // easing function
}

// normalize validates and adjusts StartAt against the hard threshold.
func (c *SoftPityConfig) normalize(pity int) error {
	if pity <= 1 {
		return ErrSoftPityConfig
	}
	if c.TargetProb <= 0 || c.TargetProb >= 1 {
		return ErrSoftPityConfig
	}
	if c.StartAt < 0 {
		c.StartAt = 0
	}
	// Ramp ends at (Pity-1). StartAt must be < (Pity-1) to have room to ramp.
	if c.StartAt >= pity-1 {
		return ErrSoftPityConfig
	}
	if c.Easing == "" {
		c.Easing = EaseLinear
	}
	return nil
}

// legendaryProb computes the legendary probability for the next pull given
// the current count (before the pull increments it).
func (c *SoftPityConfig) legendaryProb(base float64, count, pity int) float64 {
	if count < c.StartAt {
		return base
	}
	end := pity - 1
	length := float64(end - c.StartAt)
	if length <= 0 {
		return base
	}
	t := float64(count-c.StartAt) / length
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	switch c.Easing {
	case EaseOutQuad:
		// f(t) = 1 - (1 - t)^2
		t = 1 - (1-t)*(1-t)
	case EaseInOutCubic:
		if t < 0.5 {
			t = 4 * t * t * t
		} else {
			t = 1 - (-2*t+2)*(-2*t+2)*(-2*t+2)/2
		}
	default:
		// linear
	}
	p := base + (c.TargetProb-base)*t
	if p < 0 {
		p = 0
	}
	if p > 0.999999999999 { // keep < 1; the hard pity does the guaranteeing
		p = 0.999999999999
	}
	return p
}

// effectiveWeights returns w with the legendary tier ramped and the other
// tiers rescaled so the total stays 1. A nil config returns w unchanged.
func (c *SoftPityConfig) effectiveWeights(w Weights, count, pity int) Weights {
	if c == nil {
		return w
	}
	base := w[model.Legendary]
	p := c.legendaryProb(base, count, pity)
	if p == base || base >= 1 {
		return w
	}
	rest := 1 - base
	out := w
	out[model.Legendary] = p
	if rest <= 0 {
		return out
	}
	scale := (1 - p) / rest
	for _, r := range []model.Rarity{model.Common, model.Rare, model.Epic} {
		out[r] = w[r] * scale
	}
	return out
}
