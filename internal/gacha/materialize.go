package gacha

import (
	"fmt"

	"github.com/xtding233/petgacha/internal/model"
)

// BaseStats is the attack/defense floor for a tier.
type BaseStats struct {
	Attack  int
	Defense int
}

// Table drives materialization: base stats and name pool per tier, plus the
// inclusive jitter bounds added on top of the base.
type Table struct {
	Base          [model.NumRarities]BaseStats
	Names         [model.NumRarities][]string
	AttackJitter  int // attack gets +0..AttackJitter
	DefenseJitter int // defense gets +0..DefenseJitter
}

// DefaultTable mirrors the stock creature catalog.
func DefaultTable() Table {
	return Table{
		Base: [model.NumRarities]BaseStats{
			model.Common:    {Attack: 5, Defense: 3},
			model.Rare:      {Attack: 10, Defense: 6},
			model.Epic:      {Attack: 20, Defense: 12},
			model.Legendary: {Attack: 40, Defense: 25},
		},
		Names: [model.NumRarities][]string{
			model.Common:    {"Chick", "Puppy", "Kitten", "Bunny"},
			model.Rare:      {"Fire Fox", "Frost Bird", "Thunder Mouse", "Wind Serpent"},
			model.Epic:      {"Phoenix", "Qilin", "White Tiger", "Black Tortoise"},
			model.Legendary: {"Divine Dragon", "Pegasus", "Nine-Tailed Fox", "Azure Dragon"},
		},
		AttackJitter:  4,
		DefenseJitter: 2,
	}
}

func (t Table) Validate() error {
	for _, r := range model.Rarities {
		if len(t.Names[r]) == 0 {
			return fmt.Errorf("creature table: no names for %s", r)
		}
	}
	if t.AttackJitter < 0 || t.DefenseJitter < 0 {
		return fmt.Errorf("creature table: jitter must be >= 0")
	}
	return nil
}

// Materialize builds a fresh level-1 creature of rarity r.
func (t Table) Materialize(id string, r model.Rarity, rng RandomSource) model.Creature {
	names := t.Names[r]
	name := ""
	if len(names) > 0 {
		name = names[IntN(rng, len(names))]
	}
	base := t.Base[r]
	return model.Creature{
		ID:      id,
		Name:    name,
		Rarity:  r,
		Level:   1,
		Exp:     0,
		Attack:  base.Attack + IntN(rng, t.AttackJitter+1),
		Defense: base.Defense + IntN(rng, t.DefenseJitter+1),
	}
}
