package session

import (
	"github.com/xtding233/petgacha/internal/model"
	"github.com/xtding233/petgacha/internal/party"
)

// PartyView is the active party with its summed stats.
type PartyView struct {
	Active []string `json:"active"`
	Max    int      `json:"maxActive"`
	party.Stats
}

func (s *Session) Party() PartyView {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := s.w.party.Active()
	if active == nil {
		active = []string{}
	}
	return PartyView{Active: active, Max: s.eco.Party.MaxActive, Stats: s.w.party.Stats()}
}

func (s *Session) Summon(creatureID string) model.Outcome {
	var out model.Outcome
	_ = s.do(func(w *world) error {
		out = w.party.Summon(creatureID)
		return nil
	})
	return out
}

func (s *Session) Dismiss(creatureID string) model.Outcome {
	var out model.Outcome
	_ = s.do(func(w *world) error {
		out = w.party.Dismiss(creatureID)
		return nil
	})
	return out
}
