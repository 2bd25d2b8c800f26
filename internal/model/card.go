package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Category tags a card's payload.
type Category string

const (
	CategoryPet  Category = "pet"
	CategoryItem Category = "item"
	CategoryBuff Category = "buff"
)

// Reward is the payload of a card. The set of implementations is closed:
// CreatureReward, ItemReward and BuffReward.
type Reward interface {
	Category() Category
	sealed()
}

type CreatureReward struct{ Creature Creature }

type ItemReward struct{ Item Item }

// Buff is a timed modifier granted by a reward.
type Buff struct {
	Name     string    `json:"name"`
	Stats    StatBonus `json:"stats"`
	Duration int       `json:"duration"` // in days
}

type BuffReward struct{ Buff Buff }

func (CreatureReward) Category() Category { return CategoryPet }
func (ItemReward) Category() Category     { return CategoryItem }
func (BuffReward) Category() Category     { return CategoryBuff }

func (CreatureReward) sealed() {}
func (ItemReward) sealed()     {}
func (BuffReward) sealed()     {}

// Card records one reward grant. It is immutable once appended.
type Card struct {
	ID     string
	Name   string
	Rarity Rarity
	Reward Reward
}

// Category of the card's payload, or "" if it has none.
func (c Card) Category() Category {
	if c.Reward == nil {
		return ""
	}
	return c.Reward.Category()
}

// NewCreatureCard builds the record for a pulled creature. The payload is a copy.
func NewCreatureCard(id string, cr Creature) Card {
	return Card{ID: id, Name: cr.Name, Rarity: cr.Rarity, Reward: CreatureReward{Creature: cr.Clone()}}
}

var ErrCardPayload = errors.New("card payload does not match its type")

type cardJSON struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Type   Category        `json:"type"`
	Rarity Rarity          `json:"rarity"`
	Data   json.RawMessage `json:"data"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	var data any
	switch r := c.Reward.(type) {
	case CreatureReward:
		data = r.Creature
	case ItemReward:
		data = r.Item
	case BuffReward:
		data = r.Buff
	case nil:
		return nil, fmt.Errorf("card %s: %w", c.ID, ErrCardPayload)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cardJSON{ID: c.ID, Name: c.Name, Type: c.Category(), Rarity: c.Rarity, Data: raw})
}

func (c *Card) UnmarshalJSON(b []byte) error {
	var w cardJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	var reward Reward
	switch w.Type {
	case CategoryPet:
		var cr Creature
		if err := json.Unmarshal(w.Data, &cr); err != nil {
			return fmt.Errorf("card %s: %w", w.ID, err)
		}
		reward = CreatureReward{Creature: cr}
	case CategoryItem:
		var it Item
		if err := json.Unmarshal(w.Data, &it); err != nil {
			return fmt.Errorf("card %s: %w", w.ID, err)
		}
		reward = ItemReward{Item: it}
	case CategoryBuff:
		var bf Buff
		if err := json.Unmarshal(w.Data, &bf); err != nil {
			return fmt.Errorf("card %s: %w", w.ID, err)
		}
		reward = BuffReward{Buff: bf}
	default:
		return fmt.Errorf("card %s: type %q: %w", w.ID, w.Type, ErrCardPayload)
	}
	*c = Card{ID: w.ID, Name: w.Name, Rarity: w.Rarity, Reward: reward}
	return nil
}
