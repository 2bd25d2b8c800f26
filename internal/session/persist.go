package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xtding233/petgacha/internal/codec"
	"github.com/xtding233/petgacha/internal/notify"
	"github.com/xtding233/petgacha/internal/savestore"
)

// Snapshot captures the persisted state. Crop plots and monsters are not
// part of it.
func (s *Session) Snapshot() codec.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(s.w)
}

func (s *Session) snapshot(w *world) codec.Snapshot {
	return codec.Snapshot{
		Version:       codec.Version,
		PlayerName:    w.name,
		StarterPetID:  w.coll.StarterID(),
		Resources:     w.ledger.Snapshot(),
		Pets:          w.coll.Creatures(),
		Cards:         w.coll.Cards(),
		Items:         w.coll.Items(),
		Talents:       w.coll.Talents(),
		BaseBuildings: w.coll.Structures(),
		BaseLevel:     w.base.Level(),
		Day:           w.day,
		Pity:          w.engine.PityCounts(),
		Research:      w.base.Progress(),
		Party:         w.party.Active(),
	}
}

// Save encodes the current state.
func (s *Session) Save() ([]byte, error) {
	return codec.Encode(s.Snapshot())
}

// Load replaces the whole state with the decoded snapshot and publishes
// Loaded. On any error the previous state is left untouched.
func (s *Session) Load(data []byte) error {
	snap, err := codec.Decode(data)
	if err != nil {
		return err
	}
	return s.do(func(_ *world) error {
		w, err := s.restore(snap)
		if err != nil {
			s.outbox.Drain()
			return err
		}
		// entity re-adds are not published
		s.outbox.Drain()
		s.w = w
		s.outbox.Emit(notify.Loaded{})
		s.log.Info("snapshot loaded", zap.String("player", w.name), zap.Int("pets", len(snap.Pets)), zap.Int("day", w.day))
		return nil
	})
}

func (s *Session) restore(snap codec.Snapshot) (*world, error) {
	eco := s.eco
	eco.Resources = snap.Resources
	w, err := s.newWorld(eco)
	if err != nil {
		return nil, err
	}
	w.name = snap.PlayerName
	w.day = snap.Day
	for _, cr := range snap.Pets {
		if err := w.coll.AddCreature(cr); err != nil {
			return nil, fmt.Errorf("load pets: %w", err)
		}
	}
	for _, c := range snap.Cards {
		if err := w.coll.AddCard(c); err != nil {
			return nil, fmt.Errorf("load cards: %w", err)
		}
	}
	for _, it := range snap.Items {
		if err := w.coll.AddItem(it); err != nil {
			return nil, fmt.Errorf("load items: %w", err)
		}
	}
	for _, t := range snap.Talents {
		if err := w.coll.AddTalent(t); err != nil {
			return nil, fmt.Errorf("load talents: %w", err)
		}
	}
	for _, st := range snap.BaseBuildings {
		if err := w.coll.AddStructure(st); err != nil {
			return nil, fmt.Errorf("load buildings: %w", err)
		}
	}
	w.coll.SetStarter(snap.StarterPetID)
	w.base.SetLevel(snap.BaseLevel)
	w.base.RestoreProgress(snap.Research)
	w.engine.RestorePity(snap.Pity)
	w.party.Restore(snap.Party)
	return w, nil
}

// SaveTo writes the current state into a slot.
func (s *Session) SaveTo(ctx context.Context, st savestore.Store, slot string) (savestore.Info, error) {
	data, err := s.Save()
	if err != nil {
		return savestore.Info{}, err
	}
	info, err := st.Put(ctx, slot, data)
	if err != nil {
		return savestore.Info{}, err
	}
	s.log.Info("snapshot saved", zap.String("slot", slot), zap.Int("size", info.Size), zap.String("digest", info.Digest))
	return info, nil
}

// LoadFrom reads a slot and loads it.
func (s *Session) LoadFrom(ctx context.Context, st savestore.Store, slot string) error {
	data, err := st.Get(ctx, slot)
	if err != nil {
		return err
	}
	return s.Load(data)
}
