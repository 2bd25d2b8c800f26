package session

import (
	"fmt"
	"time"

	"github.com/xtding233/petgacha/internal/combat"
	"github.com/xtding233/petgacha/internal/farm"
	"github.com/xtding233/petgacha/internal/model"
)

// Till prepares the crop plot under (x, y).
func (s *Session) Till(x, y int) (farm.Cell, bool) {
	var (
		c  farm.Cell
		ok bool
	)
	_ = s.do(func(w *world) error {
		c, ok = w.field.Till(x, y)
		return nil
	})
	return c, ok
}

func (s *Session) Plant(c farm.Cell) model.Outcome {
	var out model.Outcome
	_ = s.do(func(w *world) error {
		out = w.field.Plant(c)
		return nil
	})
	return out
}

func (s *Session) HarvestCrop(c farm.Cell) (farm.Harvest, model.Outcome, error) {
	var (
		h   farm.Harvest
		out model.Outcome
	)
	err := s.do(func(w *world) error {
		var err error
		h, out, err = w.field.Harvest(c)
		return err
	})
	return h, out, err
}

// MaxTick bounds the game time a single Tick may advance.
const MaxTick = 24 * time.Hour

// Tick advances crop growth and monster spawning by elapsed game time.
func (s *Session) Tick(elapsed time.Duration) ([]combat.Monster, error) {
	if elapsed < 0 || elapsed > MaxTick {
		return nil, fmt.Errorf("%w: tick %s outside [0, %s]", ErrBadInput, elapsed, MaxTick)
	}
	var spawned []combat.Monster
	_ = s.do(func(w *world) error {
		w.field.Tick(elapsed)
		spawned = w.arena.Tick(elapsed)
		return nil
	})
	return spawned, nil
}

func (s *Session) Monsters() []combat.Monster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.arena.Monsters()
}

// Hit strikes a monster. A damage of 0 strikes with the starter's attack.
func (s *Session) Hit(monsterID string, damage int) (combat.Hit, model.Outcome, error) {
	if damage < 0 {
		return combat.Hit{}, model.OK, fmt.Errorf("%w: damage %d", ErrBadInput, damage)
	}
	var (
		h   combat.Hit
		out model.Outcome
	)
	err := s.do(func(w *world) error {
		dmg := damage
		if dmg == 0 {
			st, ok := w.coll.Starter()
			if !ok {
				out = model.Unavailable
				return nil
			}
			dmg = st.Attack
		}
		var err error
		h, out, err = w.arena.Strike(monsterID, dmg)
		return err
	})
	return h, out, err
}

// AdvanceDay moves the calendar forward by one day and returns the new day.
func (s *Session) AdvanceDay() int {
	var day int
	_ = s.do(func(w *world) error {
		w.day++
		day = w.day
		return nil
	})
	return day
}
