package model

import "fmt"

// Element is a creature's optional affinity.
type Element string

const (
	Fire    Element = "fire"
	Water   Element = "water"
	Grass   Element = "grass"
	Thunder Element = "thunder"
	Normal  Element = "normal"
)

// Equipment holds item ids slotted onto a creature.
type Equipment struct {
	Weapon    string `json:"weapon,omitempty"`
	Armor     string `json:"armor,omitempty"`
	Accessory string `json:"accessory,omitempty"`
}

// Creature is an owned pet.
type Creature struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Rarity    Rarity     `json:"rarity"`
	Level     int        `json:"level"`
	Exp       int        `json:"exp"`
	Attack    int        `json:"attack"`
	Defense   int        `json:"defense"`
	Speed     int        `json:"speed,omitempty"`
	Type      Element    `json:"type,omitempty"`
	Equipment *Equipment `json:"equipment,omitempty"`
	IsStarter bool       `json:"isStarter,omitempty"`
}

// Clone returns a deep copy, so stored creatures never share equipment.
func (c Creature) Clone() Creature {
	if c.Equipment != nil {
		eq := *c.Equipment
		c.Equipment = &eq
	}
	return c
}

// Validate checks the invariants a stored creature must hold.
func (c Creature) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("creature: empty id")
	}
	if !c.Rarity.Valid() {
		return fmt.Errorf("creature %s: invalid rarity %d", c.ID, uint8(c.Rarity))
	}
	if c.Level < 1 {
		return fmt.Errorf("creature %s: level %d, must be >= 1", c.ID, c.Level)
	}
	if c.Exp < 0 {
		return fmt.Errorf("creature %s: exp %d, must be >= 0", c.ID, c.Exp)
	}
	return nil
}
