package gacha

import (
	"errors"
	"fmt"
)

var ErrUnknownPool = errors.New("unknown pool")

// Pool is one rate table players can pull from.
type Pool struct {
	ID      string
	Name    string
	Cost    int // gold per pull
	Weights Weights
	Soft    *SoftPityConfig // optional legendary ramp
}

// Validate checks the pool against the hard pity threshold it will run under.
func (p *Pool) Validate(pity int) error {
	if p.ID == "" {
		return errors.New("pool id is empty")
	}
	if p.Cost < 0 {
		return fmt.Errorf("pool %s: cost must be >= 0", p.ID)
	}
	if err := ValidateWeights(p.Weights); err != nil {
		return fmt.Errorf("pool %s: %w", p.ID, err)
	}
	if p.Soft != nil {
		if err := p.Soft.normalize(pity); err != nil {
			return fmt.Errorf("pool %s: %w", p.ID, err)
		}
	}
	return nil
}
