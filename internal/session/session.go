// Package session runs one player's game. Every action takes the session
// lock, mutates the components, then publishes the events it produced after
// the lock is released.
package session

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xtding233/petgacha/internal/base"
	"github.com/xtding233/petgacha/internal/combat"
	"github.com/xtding233/petgacha/internal/config"
	"github.com/xtding233/petgacha/internal/farm"
	"github.com/xtding233/petgacha/internal/gacha"
	"github.com/xtding233/petgacha/internal/ids"
	"github.com/xtding233/petgacha/internal/ledger"
	"github.com/xtding233/petgacha/internal/notify"
	"github.com/xtding233/petgacha/internal/party"
	"github.com/xtding233/petgacha/internal/store"
)

var ErrBadInput = errors.New("bad input")

// Options carries the collaborators a session does not build itself.
type Options struct {
	RNG    gacha.RandomSource // nil = crypto RNG
	IDs    ids.Generator      // nil = uuid ids
	Logger *zap.Logger        // nil = no-op
	Bus    *notify.Bus        // nil = private bus
}

// world is the replaceable game state. Load builds a new one and swaps it in.
type world struct {
	name   string
	day    int
	ledger *ledger.Ledger
	coll   *store.Collection
	engine *gacha.Engine
	base   *base.Base
	field  *farm.Field
	arena  *combat.Arena
	party  *party.Party
}

type Session struct {
	mu     sync.Mutex
	eco    config.Economy
	w      *world
	outbox *notify.Outbox

	bus *notify.Bus
	rng gacha.RandomSource
	ids ids.Generator
	log *zap.Logger
}

// New starts a fresh game on eco.
func New(eco config.Economy, opts Options) (*Session, error) {
	s := &Session{
		eco:    eco,
		outbox: &notify.Outbox{},
		bus:    opts.Bus,
		rng:    opts.RNG,
		ids:    opts.IDs,
		log:    opts.Logger,
	}
	if s.bus == nil {
		s.bus = notify.NewBus()
	}
	if s.rng == nil {
		s.rng = gacha.DefaultRNG()
	}
	if s.ids == nil {
		s.ids = ids.UUID()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	w, err := s.newWorld(eco)
	s.outbox.Drain()
	if err != nil {
		return nil, err
	}
	s.w = w
	return s, nil
}

func (s *Session) newWorld(eco config.Economy) (*world, error) {
	l, err := ledger.New(eco.Resources, s.outbox)
	if err != nil {
		return nil, fmt.Errorf("session: resources: %w", err)
	}
	coll := store.New(s.outbox)
	eng, err := gacha.NewEngine(eco.Gacha, l, coll, s.rng, s.ids)
	if err != nil {
		return nil, fmt.Errorf("session: gacha: %w", err)
	}
	b, err := base.New(eco.Catalog, eco.Recruit, eco.Research, l, coll, s.rng, s.ids)
	if err != nil {
		return nil, fmt.Errorf("session: base: %w", err)
	}
	f, err := farm.NewField(eco.Farm, l, s.rng)
	if err != nil {
		return nil, fmt.Errorf("session: farm: %w", err)
	}
	a, err := combat.NewArena(eco.Combat, l, s.rng, s.ids)
	if err != nil {
		return nil, fmt.Errorf("session: combat: %w", err)
	}
	p, err := party.New(eco.Party, coll)
	if err != nil {
		return nil, fmt.Errorf("session: party: %w", err)
	}
	return &world{day: 1, ledger: l, coll: coll, engine: eng, base: b, field: f, arena: a, party: p}, nil
}

// do runs fn under the lock and publishes what it emitted afterwards.
// New creatures join the party while it has room.
func (s *Session) do(fn func(w *world) error) error {
	s.mu.Lock()
	err := fn(s.w)
	events := s.outbox.Drain()
	for _, e := range events {
		if added, ok := e.(notify.CreatureAdded); ok {
			s.w.party.Summon(added.Creature.ID)
		}
	}
	s.mu.Unlock()
	s.bus.Publish(events...)
	return err
}

// Subscribe registers h for every event the session publishes.
func (s *Session) Subscribe(h notify.Handler) (cancel func()) { return s.bus.Subscribe(h) }

// Economy returns the rules the session currently runs on.
func (s *Session) Economy() config.Economy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eco
}

// Reconfigure swaps rule sets in place. Balances, collections, pity counters
// and research progress are kept. On error nothing changes.
func (s *Session) Reconfigure(eco config.Economy) error {
	return s.do(func(w *world) error {
		// validate everything on throwaway components before touching live ones
		if _, err := s.newWorld(eco); err != nil {
			s.outbox.Drain()
			return err
		}
		s.outbox.Drain()
		if err := w.engine.Reconfigure(eco.Gacha); err != nil {
			return err
		}
		if err := w.base.Reconfigure(eco.Catalog, eco.Recruit, eco.Research); err != nil {
			return err
		}
		if err := w.field.Reconfigure(eco.Farm); err != nil {
			return err
		}
		if err := w.arena.Reconfigure(eco.Combat); err != nil {
			return err
		}
		if err := w.party.Reconfigure(eco.Party); err != nil {
			return err
		}
		s.eco = eco
		s.log.Info("economy reconfigured", zap.String("version", eco.Version), zap.Int("pools", len(eco.Gacha.Pools)))
		return nil
	})
}
