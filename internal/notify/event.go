package notify

import "github.com/xtding233/petgacha/internal/model"

// Event is something the presentation layer may react to.
type Event interface {
	Name() string
}

type ResourceChanged struct {
	Kind  model.ResourceKind
	Value int
}

type CreatureAdded struct{ Creature model.Creature }

type CreatureLeveled struct {
	Creature model.Creature
	Levels   int
}

type CardAdded struct{ Card model.Card }

type ItemAdded struct{ Item model.Item }

type TalentAdded struct{ Talent model.Talent }

type StructureAdded struct{ Structure model.Structure }

// Loaded fires once a snapshot has fully replaced the state.
type Loaded struct{}

func (ResourceChanged) Name() string { return "resourceChanged" }
func (CreatureAdded) Name() string   { return "petAdded" }
func (CreatureLeveled) Name() string { return "petLevelUp" }
func (CardAdded) Name() string       { return "cardAdded" }
func (ItemAdded) Name() string       { return "itemAdded" }
func (TalentAdded) Name() string     { return "talentAdded" }
func (StructureAdded) Name() string  { return "buildingAdded" }
func (Loaded) Name() string          { return "loaded" }
