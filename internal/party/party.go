// Package party tracks which owned creatures follow the player.
package party

import (
	"fmt"

	"github.com/xtding233/petgacha/internal/model"
)

type Rules struct {
	MaxActive int
}

func DefaultRules() Rules { return Rules{MaxActive: 3} }

func (r Rules) Validate() error {
	if r.MaxActive < 1 {
		return fmt.Errorf("party: max_active must be >= 1")
	}
	return nil
}

// Roster is the collection lookup the party reads stats from.
type Roster interface {
	Creature(id string) (model.Creature, bool)
}

// Stats is the summed combat strength of the active creatures.
type Stats struct {
	Attack  int `json:"totalAttack"`
	Defense int `json:"totalDefense"`
}

// Party keeps active creature ids in summon order.
// Not safe for concurrent use.
type Party struct {
	rules  Rules
	roster Roster
	active []string
}

func New(r Rules, roster Roster) (*Party, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &Party{rules: r, roster: roster}, nil
}

// Reconfigure swaps the rules. A smaller cap dismisses the latest summons.
func (p *Party) Reconfigure(r Rules) error {
	if err := r.Validate(); err != nil {
		return err
	}
	p.rules = r
	if len(p.active) > r.MaxActive {
		p.active = p.active[:r.MaxActive]
	}
	return nil
}

func (p *Party) index(id string) int {
	for i, a := range p.active {
		if a == id {
			return i
		}
	}
	return -1
}

// Summon adds an owned creature to the party.
func (p *Party) Summon(id string) model.Outcome {
	if _, ok := p.roster.Creature(id); !ok {
		return model.NotFound
	}
	if p.index(id) >= 0 {
		return model.AlreadyDone
	}
	if len(p.active) >= p.rules.MaxActive {
		return model.Occupied
	}
	p.active = append(p.active, id)
	return model.OK
}

// Dismiss removes a creature from the party.
func (p *Party) Dismiss(id string) model.Outcome {
	i := p.index(id)
	if i < 0 {
		return model.NotFound
	}
	p.active = append(p.active[:i], p.active[i+1:]...)
	return model.OK
}

// Active lists the party in summon order.
func (p *Party) Active() []string { return append([]string(nil), p.active...) }

// Stats sums attack and defense over the party with the creatures' current values.
func (p *Party) Stats() Stats {
	var s Stats
	for _, id := range p.active {
		if cr, ok := p.roster.Creature(id); ok {
			s.Attack += cr.Attack
			s.Defense += cr.Defense
		}
	}
	return s
}

// Restore replaces the party. Unknown, repeated and over-cap ids are dropped.
func (p *Party) Restore(ids []string) {
	p.active = nil
	for _, id := range ids {
		p.Summon(id)
	}
}
