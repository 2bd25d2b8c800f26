// Package combat spawns field monsters and pays their gold drops.
package combat

import (
	"fmt"
	"time"

	"github.com/xtding233/petgacha/internal/gacha"
	"github.com/xtding233/petgacha/internal/ids"
	"github.com/xtding233/petgacha/internal/model"
)

type Rules struct {
	SpawnEvery time.Duration
	MaxAlive   int
	HP         int
	Attack     int
	DropMin    int // inclusive
	DropMax    int // inclusive
	FieldW     int
	FieldH     int
}

func DefaultRules() Rules {
	return Rules{
		SpawnEvery: 10 * time.Second,
		MaxAlive:   5,
		HP:         30,
		Attack:     5,
		DropMin:    5,
		DropMax:    15,
		FieldW:     800,
		FieldH:     600,
	}
}

func (r Rules) Validate() error {
	switch {
	case r.SpawnEvery <= 0:
		return fmt.Errorf("combat: spawn interval must be > 0")
	case r.MaxAlive < 0:
		return fmt.Errorf("combat: max alive must be >= 0")
	case r.HP <= 0:
		return fmt.Errorf("combat: hp must be > 0")
	case r.DropMin < 0 || r.DropMax < r.DropMin:
		return fmt.Errorf("combat: drop range [%d,%d] invalid", r.DropMin, r.DropMax)
	case r.FieldW <= 0 || r.FieldH <= 0:
		return fmt.Errorf("combat: field size must be > 0")
	}
	return nil
}

type Monster struct {
	ID     string         `json:"id"`
	HP     int            `json:"hp"`
	Attack int            `json:"attack"`
	Pos    model.Position `json:"position"`
}

type Credit interface {
	Credit(model.ResourceKind, int) error
}

type RandomSource = gacha.RandomSource

// Hit is the result of striking a monster.
type Hit struct {
	Monster Monster
	Killed  bool
	Gold    int
}

// Arena keeps the live monsters. Not safe for concurrent use.
type Arena struct {
	rules   Rules
	alive   []Monster
	elapsed time.Duration
	wallet  Credit
	rng     RandomSource
	ids     ids.Generator
}

func NewArena(r Rules, wallet Credit, rng RandomSource, gen ids.Generator) (*Arena, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		gen = &ids.Sequence{}
	}
	return &Arena{rules: r, wallet: wallet, rng: rng, ids: gen}, nil
}

// Reconfigure swaps the rules; live monsters are kept.
func (a *Arena) Reconfigure(r Rules) error {
	if err := r.Validate(); err != nil {
		return err
	}
	a.rules = r
	return nil
}

// Tick advances the spawn clock and returns monsters spawned this tick.
func (a *Arena) Tick(elapsed time.Duration) []Monster {
	a.elapsed += elapsed
	due := int64(a.elapsed / a.rules.SpawnEvery)
	a.elapsed %= a.rules.SpawnEvery
	// spawns past the cap are dropped
	free := int64(max(0, a.rules.MaxAlive-len(a.alive)))
	var spawned []Monster
	for ; due > 0 && free > 0; due, free = due-1, free-1 {
		m := Monster{
			ID:     a.ids.Next("monster"),
			HP:     a.rules.HP,
			Attack: a.rules.Attack,
			Pos:    model.Position{X: gacha.IntN(a.rng, a.rules.FieldW), Y: gacha.IntN(a.rng, a.rules.FieldH)},
		}
		a.alive = append(a.alive, m)
		spawned = append(spawned, m)
	}
	return spawned
}

// Strike deals damage to a monster. A kill credits the gold drop.
func (a *Arena) Strike(id string, damage int) (Hit, model.Outcome, error) {
	if damage < 0 {
		return Hit{}, model.OK, fmt.Errorf("combat: negative damage %d", damage)
	}
	for i := range a.alive {
		if a.alive[i].ID != id {
			continue
		}
		m := &a.alive[i]
		m.HP -= damage
		if m.HP > 0 {
			return Hit{Monster: *m}, model.OK, nil
		}
		m.HP = 0
		h := Hit{Monster: *m, Killed: true}
		h.Gold = gacha.Between(a.rng, a.rules.DropMin, a.rules.DropMax)
		a.alive = append(a.alive[:i], a.alive[i+1:]...)
		if err := a.wallet.Credit(model.Gold, h.Gold); err != nil {
			return h, model.OK, err
		}
		return h, model.OK, nil
	}
	return Hit{}, model.NotFound, nil
}

func (a *Arena) Monsters() []Monster { return append([]Monster(nil), a.alive...) }
