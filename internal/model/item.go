package model

type ItemType string

const (
	Weapon    ItemType = "weapon"
	Armor     ItemType = "armor"
	Accessory ItemType = "accessory"
	Potion    ItemType = "potion"
	Material  ItemType = "material"
)

// StatBonus is what an item adds when equipped or consumed.
type StatBonus struct {
	Attack  int `json:"attack,omitempty" yaml:"attack,omitempty"`
	Defense int `json:"defense,omitempty" yaml:"defense,omitempty"`
	Speed   int `json:"speed,omitempty" yaml:"speed,omitempty"`
}

type Item struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Type   ItemType   `json:"type"`
	Rarity Rarity     `json:"rarity"`
	Stats  *StatBonus `json:"stats,omitempty"`
	Effect string     `json:"effect,omitempty"`
}

func (it Item) Clone() Item {
	if it.Stats != nil {
		s := *it.Stats
		it.Stats = &s
	}
	return it
}
