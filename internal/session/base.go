package session

import (
	"go.uber.org/zap"

	"github.com/xtding233/petgacha/internal/base"
	"github.com/xtding233/petgacha/internal/model"
)

func (s *Session) Place(kind model.StructureKind, x, y int) (model.Structure, model.Outcome, error) {
	var (
		st  model.Structure
		out model.Outcome
	)
	err := s.do(func(w *world) error {
		var err error
		st, out, err = w.base.Place(kind, x, y)
		if err == nil && out.OK() {
			s.log.Info("structure placed", zap.String("id", st.ID), zap.String("type", string(st.Type)), zap.Int("x", st.Position.X), zap.Int("y", st.Position.Y))
		}
		return err
	})
	return st, out, err
}

// HarvestStructure collects food from a farm structure.
func (s *Session) HarvestStructure(id string) (int, model.Outcome, error) {
	var (
		food int
		out  model.Outcome
	)
	err := s.do(func(w *world) error {
		var err error
		food, out, err = w.base.Harvest(id)
		return err
	})
	return food, out, err
}

func (s *Session) Assign(structureID, talentID string) (model.Outcome, error) {
	var out model.Outcome
	err := s.do(func(w *world) error {
		var err error
		out, err = w.base.Assign(structureID, talentID)
		return err
	})
	return out, err
}

// UpgradeBase raises the base level, returning the new level.
func (s *Session) UpgradeBase() (int, model.Outcome) {
	var (
		level int
		out   model.Outcome
	)
	_ = s.do(func(w *world) error {
		level, out = w.base.Upgrade()
		if out.OK() {
			s.log.Info("base upgraded", zap.Int("level", level))
		}
		return nil
	})
	return level, out
}

func (s *Session) Recruit() (model.Talent, model.Outcome, error) {
	var (
		t   model.Talent
		out model.Outcome
	)
	err := s.do(func(w *world) error {
		var err error
		t, out, err = w.base.Recruit()
		return err
	})
	return t, out, err
}

func (s *Session) Research(projectID string) (base.ResearchTick, model.Outcome, error) {
	var (
		tick base.ResearchTick
		out  model.Outcome
	)
	err := s.do(func(w *world) error {
		var err error
		tick, out, err = w.base.Research(projectID)
		if err == nil && tick.Item != nil {
			s.log.Info("research complete", zap.String("project", projectID), zap.String("item", tick.Item.ID))
		}
		return err
	})
	return tick, out, err
}
