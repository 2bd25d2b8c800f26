package model

import "fmt"

// Rarity is an ordered reward tier: common < rare < epic < legendary.
type Rarity uint8

const (
	Common Rarity = iota
	Rare
	Epic
	Legendary
)

// NumRarities is the number of tiers; arrays indexed by Rarity use it as length.
const NumRarities = 4

// Rarities lists every tier from most common to rarest.
var Rarities = [NumRarities]Rarity{Common, Rare, Epic, Legendary}

var rarityNames = [NumRarities]string{"common", "rare", "epic", "legendary"}

func (r Rarity) String() string {
	if int(r) < len(rarityNames) {
		return rarityNames[r]
	}
	return fmt.Sprintf("rarity(%d)", uint8(r))
}

// Valid reports whether r is one of the four tiers.
func (r Rarity) Valid() bool { return r <= Legendary }

// High reports whether a natural roll of r resets pity (epic or legendary).
func (r Rarity) High() bool { return r >= Epic }

// ParseRarity maps a lowercase tier name to its Rarity.
func ParseRarity(s string) (Rarity, error) {
	for i, n := range rarityNames {
		if n == s {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rarity %q", s)
}

func (r Rarity) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rarity %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(b []byte) error {
	v, err := ParseRarity(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
