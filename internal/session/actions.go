package session

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xtding233/petgacha/internal/gacha"
	"github.com/xtding233/petgacha/internal/model"
	"github.com/xtding233/petgacha/internal/notify"
	"github.com/xtding233/petgacha/internal/progression"
)

func (s *Session) SetPlayerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty player name", ErrBadInput)
	}
	return s.do(func(w *world) error {
		w.name = name
		return nil
	})
}

// SelectStarter adds the chosen starter creature. It works once per game.
func (s *Session) SelectStarter(id string) (model.Creature, model.Outcome, error) {
	var (
		cr  model.Creature
		out model.Outcome
	)
	err := s.do(func(w *world) error {
		if w.coll.StarterID() != "" {
			out = model.AlreadyDone
			return nil
		}
		tmpl, ok := s.eco.Starter(id)
		if !ok {
			out = model.NotFound
			return nil
		}
		cr = tmpl.Clone()
		if err := w.coll.AddCreature(cr); err != nil {
			return err
		}
		w.coll.SetStarter(cr.ID)
		s.log.Info("starter selected", zap.String("starter", cr.ID))
		return nil
	})
	return cr, out, err
}

// Levelled reports a creature after an exp grant.
type Levelled struct {
	Creature model.Creature `json:"pet"`
	Levels   int            `json:"levels"`
}

// grant applies exp with strategy and stores the result. Caller holds the lock.
func (s *Session) grant(w *world, cr model.Creature, exp int, st progression.Strategy) (Levelled, error) {
	up, levels := st.Grant(cr, exp)
	if err := w.coll.UpdateCreature(up); err != nil {
		return Levelled{}, err
	}
	if levels > 0 {
		s.outbox.Emit(notify.CreatureLeveled{Creature: up, Levels: levels})
		s.log.Debug("creature leveled", zap.String("pet", up.ID), zap.Int("level", up.Level), zap.String("strategy", st.Name))
	}
	return Levelled{Creature: up, Levels: levels}, nil
}

// Train spends the training cost and grants training exp.
func (s *Session) Train(creatureID string) (Levelled, model.Outcome, error) {
	var (
		res Levelled
		out model.Outcome
	)
	err := s.do(func(w *world) error {
		cr, ok := w.coll.Creature(creatureID)
		if !ok {
			out = model.NotFound
			return nil
		}
		if !w.ledger.DebitAll(s.eco.TrainCost) {
			out = model.InsufficientResources
			return nil
		}
		var err error
		res, err = s.grant(w, cr, s.eco.TrainExp, s.eco.Training)
		return err
	})
	return res, out, err
}

// Feed grants exp with the feeding rule. It costs nothing.
func (s *Session) Feed(creatureID string, exp int) (Levelled, model.Outcome, error) {
	if exp < 0 {
		return Levelled{}, model.OK, fmt.Errorf("%w: exp %d", ErrBadInput, exp)
	}
	var (
		res Levelled
		out model.Outcome
	)
	err := s.do(func(w *world) error {
		cr, ok := w.coll.Creature(creatureID)
		if !ok {
			out = model.NotFound
			return nil
		}
		var err error
		res, err = s.grant(w, cr, exp, s.eco.Feeding)
		return err
	})
	return res, out, err
}

// Pull performs one gacha pull.
func (s *Session) Pull(poolID string) (gacha.Result, error) {
	var res gacha.Result
	err := s.do(func(w *world) error {
		var err error
		res, err = w.engine.Pull(poolID)
		if err == nil && res.Outcome.OK() {
			s.logPull(poolID, res)
		}
		return err
	})
	return res, err
}

// TenPull performs ten independent pulls; unaffordable ones are dropped.
func (s *Session) TenPull(poolID string) ([]gacha.Result, error) {
	var res []gacha.Result
	err := s.do(func(w *world) error {
		var err error
		res, err = w.engine.TenPull(poolID)
		for _, r := range res {
			s.logPull(poolID, r)
		}
		return err
	})
	return res, err
}

func (s *Session) logPull(poolID string, r gacha.Result) {
	s.log.Debug("pull",
		zap.String("pool", poolID),
		zap.Stringer("rarity", r.Rarity),
		zap.Bool("forced", r.Forced),
		zap.Int("pity", r.Pity),
		zap.String("pet", r.Creature.ID),
	)
}

// Pools lists the configured pools with the current pity counter of each.
func (s *Session) Pools() []PoolView {
	s.mu.Lock()
	defer s.mu.Unlock()
	pools := s.w.engine.Pools()
	out := make([]PoolView, 0, len(pools))
	for _, p := range pools {
		count, _ := s.w.engine.Pity(p.ID)
		out = append(out, PoolView{ID: p.ID, Name: p.Name, Cost: p.Cost, Rates: rates(p.Weights), Pity: count, PityThreshold: s.w.engine.PityThreshold()})
	}
	return out
}

// PoolView is a pool as shown to players.
type PoolView struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	Cost          int                      `json:"cost"`
	Rates         map[model.Rarity]float64 `json:"rates"`
	Pity          int                      `json:"pity"`
	PityThreshold int                      `json:"pityThreshold"`
}

func rates(w gacha.Weights) map[model.Rarity]float64 {
	out := make(map[model.Rarity]float64, model.NumRarities)
	for _, r := range model.Rarities {
		out[r] = w[r]
	}
	return out
}

// Simulate runs a Monte Carlo estimate of a pool. It touches no game state.
func (s *Session) Simulate(poolID string, trials int, seed uint64) (gacha.SimResult, error) {
	if trials <= 0 || trials > 1_000_000 {
		return gacha.SimResult{}, fmt.Errorf("%w: trials must be in [1,1000000]", ErrBadInput)
	}
	s.mu.Lock()
	pool, ok := s.w.engine.Pool(poolID)
	pity := s.w.engine.PityThreshold()
	s.mu.Unlock()
	if !ok {
		return gacha.SimResult{}, fmt.Errorf("%s: %w", poolID, gacha.ErrUnknownPool)
	}
	var rng gacha.RandomSource
	if seed != 0 {
		rng = gacha.NewSeededRNG(seed)
	}
	return gacha.Simulate(pool, pity, trials, rng), nil
}
