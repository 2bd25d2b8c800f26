// Package base covers the player's home base: structure placement, base
// upgrades, farm harvests, talent recruitment and lab research.
package base

import (
	"fmt"

	"github.com/xtding233/petgacha/internal/model"
)

// Spec describes one buildable kind.
type Spec struct {
	Kind        model.StructureKind
	Name        string
	Width       int
	Height      int
	Cost        model.Cost
	UnlockLevel int
}

// Catalog is the static building data.
type Catalog struct {
	Grid        int // placement snaps to multiples of Grid
	Specs       map[model.StructureKind]Spec
	UpgradeCost model.Cost // multiplied by the current base level
	FarmYield   int        // food per farm level per harvest
}

// DefaultCatalog is the stock building set.
func DefaultCatalog() Catalog {
	return Catalog{
		Grid: 32,
		Specs: map[model.StructureKind]Spec{
			model.PetHouse:      {Kind: model.PetHouse, Name: "Pet House", Width: 96, Height: 96, Cost: model.Cost{model.Wood: 30, model.Stone: 20, model.Gold: 100}, UnlockLevel: 1},
			model.Farm:          {Kind: model.Farm, Name: "Farm", Width: 128, Height: 96, Cost: model.Cost{model.Wood: 40, model.Stone: 10, model.Gold: 80}, UnlockLevel: 1},
			model.Lab:           {Kind: model.Lab, Name: "Lab", Width: 96, Height: 96, Cost: model.Cost{model.Wood: 50, model.Stone: 40, model.Gold: 200}, UnlockLevel: 2},
			model.Workshop:      {Kind: model.Workshop, Name: "Workshop", Width: 96, Height: 96, Cost: model.Cost{model.Wood: 60, model.Stone: 50, model.Gold: 150}, UnlockLevel: 2},
			model.RecruitCenter: {Kind: model.RecruitCenter, Name: "Recruit Center", Width: 96, Height: 96, Cost: model.Cost{model.Wood: 35, model.Stone: 25, model.Gold: 120}, UnlockLevel: 1},
		},
		UpgradeCost: model.Cost{model.Gold: 300, model.Wood: 100, model.Stone: 100},
		FarmYield:   10,
	}
}

func (c Catalog) Validate() error {
	if c.Grid <= 0 {
		return fmt.Errorf("base grid must be > 0")
	}
	for k, s := range c.Specs {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("structure %s: size must be > 0", k)
		}
		if s.UnlockLevel < 1 {
			return fmt.Errorf("structure %s: unlock level must be >= 1", k)
		}
	}
	return nil
}

// Snap converts a click point into the structure's center on the grid.
func (c Catalog) Snap(s Spec, x, y int) model.Position {
	return model.Position{
		X: floorDiv(x, c.Grid)*c.Grid + s.Width/2,
		Y: floorDiv(y, c.Grid)*c.Grid + s.Height/2,
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Overlaps reports whether two center-positioned footprints intersect.
// Touching edges do not count.
func Overlaps(a Spec, pa model.Position, b Spec, pb model.Position) bool {
	return abs(pa.X-pb.X)*2 < a.Width+b.Width && abs(pa.Y-pb.Y)*2 < a.Height+b.Height
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
