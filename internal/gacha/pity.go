package gacha

import "github.com/xtding233/petgacha/internal/model"

// PitySystem handles a "hard pity": once Count reaches Pity the pull is
// forced legendary.

type PitySystem struct {
	Pity  int // threshold count for a guaranteed legendary; <= 0 disables pity
	Count int // pulls since the last epic/legendary
}

// NewPitySystem creates a hard pity counter with the given threshold.
func NewPitySystem(pity int) *PitySystem {
	return &PitySystem{Pity: pity}
}

// Evaluate applies one pull's worth of pity to a natural roll.
// - Count increments first.
// - If Count reaches Pity, the outcome is legendary and Count resets, whatever the roll.
// - Otherwise a natural epic/legendary resets Count; common/rare leave it incremented.
func (ps *PitySystem) Evaluate(natural model.Rarity) (out model.Rarity, forced bool) {
	ps.Count++
	if ps.Pity > 0 && ps.Count >= ps.Pity {
		ps.Count = 0
		return model.Legendary, true
	}
	if natural.High() {
		ps.Count = 0
	}
	return natural, false
}
