// Package store keeps the owned collections: creatures, reward cards, items,
// talents and structures. Collections only grow.
package store

import (
	"errors"
	"fmt"

	"github.com/xtding233/petgacha/internal/model"
	"github.com/xtding233/petgacha/internal/notify"
)

var (
	ErrDuplicateID = errors.New("duplicate id")
	ErrEmptyID     = errors.New("empty id")
	ErrNotFound    = errors.New("not found")
)

// Collection is the in-memory owner of every entity list.
// Lists keep insertion order; the index maps speed up lookups.
// Not safe for concurrent use.
type Collection struct {
	sink notify.Sink

	creatures  []model.Creature
	cards      []model.Card
	items      []model.Item
	talents    []model.Talent
	structures []model.Structure

	creatureIdx  map[string]int
	itemIdx      map[string]int
	talentIdx    map[string]int
	structureIdx map[string]int

	starterID string
}

func New(sink notify.Sink) *Collection {
	if sink == nil {
		sink = notify.Discard
	}
	return &Collection{
		sink:         sink,
		creatureIdx:  make(map[string]int),
		itemIdx:      make(map[string]int),
		talentIdx:    make(map[string]int),
		structureIdx: make(map[string]int),
	}
}

func register(idx map[string]int, id string, pos int) error {
	if id == "" {
		return ErrEmptyID
	}
	if _, dup := idx[id]; dup {
		return fmt.Errorf("%s: %w", id, ErrDuplicateID)
	}
	idx[id] = pos
	return nil
}

func (c *Collection) AddCreature(cr model.Creature) error {
	if err := register(c.creatureIdx, cr.ID, len(c.creatures)); err != nil {
		return err
	}
	cr = cr.Clone()
	c.creatures = append(c.creatures, cr)
	c.sink.Emit(notify.CreatureAdded{Creature: cr.Clone()})
	return nil
}

// AddCard appends a reward record. Card ids are not indexed; they only need
// to be unique per pull.
func (c *Collection) AddCard(card model.Card) error {
	if card.ID == "" {
		return ErrEmptyID
	}
	if card.Reward == nil {
		return model.ErrCardPayload
	}
	c.cards = append(c.cards, card)
	c.sink.Emit(notify.CardAdded{Card: card})
	return nil
}

func (c *Collection) AddItem(it model.Item) error {
	if err := register(c.itemIdx, it.ID, len(c.items)); err != nil {
		return err
	}
	c.items = append(c.items, it.Clone())
	c.sink.Emit(notify.ItemAdded{Item: it.Clone()})
	return nil
}

func (c *Collection) AddTalent(t model.Talent) error {
	if err := register(c.talentIdx, t.ID, len(c.talents)); err != nil {
		return err
	}
	c.talents = append(c.talents, t)
	c.sink.Emit(notify.TalentAdded{Talent: t})
	return nil
}

func (c *Collection) AddStructure(s model.Structure) error {
	if err := register(c.structureIdx, s.ID, len(c.structures)); err != nil {
		return err
	}
	c.structures = append(c.structures, s)
	c.sink.Emit(notify.StructureAdded{Structure: s})
	return nil
}

// Creature looks up a creature by id. The result is a copy.
func (c *Collection) Creature(id string) (model.Creature, bool) {
	i, ok := c.creatureIdx[id]
	if !ok {
		return model.Creature{}, false
	}
	return c.creatures[i].Clone(), true
}

// UpdateCreature replaces the stored creature with the same id.
func (c *Collection) UpdateCreature(cr model.Creature) error {
	i, ok := c.creatureIdx[cr.ID]
	if !ok {
		return fmt.Errorf("creature %s: %w", cr.ID, ErrNotFound)
	}
	c.creatures[i] = cr.Clone()
	return nil
}

func (c *Collection) Item(id string) (model.Item, bool) {
	i, ok := c.itemIdx[id]
	if !ok {
		return model.Item{}, false
	}
	return c.items[i].Clone(), true
}

func (c *Collection) Talent(id string) (model.Talent, bool) {
	i, ok := c.talentIdx[id]
	if !ok {
		return model.Talent{}, false
	}
	return c.talents[i], true
}

func (c *Collection) Structure(id string) (model.Structure, bool) {
	i, ok := c.structureIdx[id]
	if !ok {
		return model.Structure{}, false
	}
	return c.structures[i], true
}

func (c *Collection) UpdateStructure(s model.Structure) error {
	i, ok := c.structureIdx[s.ID]
	if !ok {
		return fmt.Errorf("structure %s: %w", s.ID, ErrNotFound)
	}
	c.structures[i] = s
	return nil
}

// HasStructure reports whether any structure of kind k is placed.
func (c *Collection) HasStructure(k model.StructureKind) bool {
	for _, s := range c.structures {
		if s.Type == k {
			return true
		}
	}
	return false
}

// SetStarter records the designated starter id.
func (c *Collection) SetStarter(id string) { c.starterID = id }

func (c *Collection) StarterID() string { return c.starterID }

// Starter returns the designated starter creature, if it exists.
func (c *Collection) Starter() (model.Creature, bool) {
	if c.starterID == "" {
		return model.Creature{}, false
	}
	return c.Creature(c.starterID)
}

// The list accessors return copies.

func (c *Collection) Creatures() []model.Creature {
	out := make([]model.Creature, len(c.creatures))
	for i, cr := range c.creatures {
		out[i] = cr.Clone()
	}
	return out
}

func (c *Collection) Cards() []model.Card { return append([]model.Card(nil), c.cards...) }

func (c *Collection) Items() []model.Item {
	out := make([]model.Item, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}

func (c *Collection) Talents() []model.Talent { return append([]model.Talent(nil), c.talents...) }

func (c *Collection) Structures() []model.Structure {
	return append([]model.Structure(nil), c.structures...)
}
