// Package progression holds the leveling rules for creatures.
package progression

import (
	"errors"
	"fmt"

	"github.com/xtding233/petgacha/internal/model"
)

// Excess decides what happens to experience beyond a level threshold.
type Excess string

const (
	// Discard resets exp to 0 on level-up; one grant can level at most once.
	Discard Excess = "discard"
	// Carry subtracts the threshold and keeps leveling while exp covers the next one.
	Carry Excess = "carry"
)

// Per-level stat growth.
const (
	AttackPerLevel  = 2
	DefensePerLevel = 1
)

var ErrStrategy = errors.New("invalid leveling strategy")

// Strategy is a named threshold rule: exp to next level = level * PerLevel.
type Strategy struct {
	Name     string
	PerLevel int
	Excess   Excess
}

var (
	// Training is the pet house rule.
	Training = Strategy{Name: "training", PerLevel: 50, Excess: Discard}
	// Feeding is the field feeding rule.
	Feeding = Strategy{Name: "feeding", PerLevel: 100, Excess: Carry}
)

func (s Strategy) Validate() error {
	if s.PerLevel <= 0 {
		return fmt.Errorf("%w: %s per_level must be > 0", ErrStrategy, s.Name)
	}
	switch s.Excess {
	case Discard, Carry:
		return nil
	default:
		return fmt.Errorf("%w: %s excess must be discard or carry, got %q", ErrStrategy, s.Name, s.Excess)
	}
}

// Threshold is the experience needed to leave level.
func (s Strategy) Threshold(level int) int {
	if level < 1 {
		level = 1
	}
	return level * s.PerLevel
}

// Grant adds exp to c and applies every level-up the strategy allows.
// It returns the updated creature and the number of levels gained.
func (s Strategy) Grant(c model.Creature, exp int) (model.Creature, int) {
	if exp < 0 {
		exp = 0
	}
	if c.Level < 1 {
		c.Level = 1
	}
	c.Exp += exp
	gained := 0
	for c.Exp >= s.Threshold(c.Level) {
		need := s.Threshold(c.Level)
		c = levelUp(c)
		gained++
		if s.Excess == Discard {
			c.Exp = 0
			break
		}
		c.Exp -= need
	}
	return c, gained
}

func levelUp(c model.Creature) model.Creature {
	c.Level++
	c.Attack += AttackPerLevel
	c.Defense += DefensePerLevel
	return c
}
