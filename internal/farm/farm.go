// Package farm runs the field crop plots: till, plant, grow, harvest.
// Plots live for the session only and are not part of the save snapshot.
package farm

import (
	"fmt"
	"time"

	"github.com/xtding233/petgacha/internal/gacha"
	"github.com/xtding233/petgacha/internal/model"
)

// Rules tunes crop behaviour.
type Rules struct {
	Grid        int
	GrowthEvery time.Duration // one stage per interval
	MaxStage    int
	SeedCost    int
	GoldMin     int // harvest gold is GoldMin + [0, GoldSpread)
	GoldSpread  int
	BonusSeedP  float64 // probability of returning 2 seeds instead of 1
}

func DefaultRules() Rules {
	return Rules{
		Grid:        32,
		GrowthEvery: 5 * time.Second,
		MaxStage:    3,
		SeedCost:    1,
		GoldMin:     10,
		GoldSpread:  10,
		BonusSeedP:  0.5,
	}
}

func (r Rules) Validate() error {
	if r.Grid <= 0 || r.GrowthEvery <= 0 || r.MaxStage <= 0 {
		return fmt.Errorf("farm: grid, growth interval and max stage must be > 0")
	}
	if r.SeedCost < 0 || r.GoldMin < 0 || r.GoldSpread < 0 {
		return fmt.Errorf("farm: costs and yields must be >= 0")
	}
	if r.BonusSeedP < 0 || r.BonusSeedP > 1 {
		return fmt.Errorf("farm: bonus seed probability must be in [0,1]")
	}
	return nil
}

// Cell is a grid-aligned plot key (top-left corner).
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Crop is a planted plot.
type Crop struct {
	Stage   int
	Growing time.Duration
}

// Wallet is the ledger surface the field uses.
type Wallet interface {
	Debit(model.ResourceKind, int) bool
	Credit(model.ResourceKind, int) error
}

type RandomSource = gacha.RandomSource

// Harvest is what a ripe crop paid out.
type Harvest struct {
	Gold  int
	Seeds int
}

// Field holds tilled plots and their crops. Not safe for concurrent use.
type Field struct {
	rules  Rules
	plots  map[Cell]*Crop // nil value = tilled, empty
	wallet Wallet
	rng    RandomSource
}

func NewField(r Rules, wallet Wallet, rng RandomSource) (*Field, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &Field{rules: r, plots: map[Cell]*Crop{}, wallet: wallet, rng: rng}, nil
}

// Reconfigure swaps the rules; planted crops keep their stage.
func (f *Field) Reconfigure(r Rules) error {
	if err := r.Validate(); err != nil {
		return err
	}
	f.rules = r
	return nil
}

// CellAt snaps a world point to its plot.
func (f *Field) CellAt(x, y int) Cell {
	g := f.rules.Grid
	return Cell{X: floorDiv(x, g) * g, Y: floorDiv(y, g) * g}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Till prepares the plot under (x, y). Already tilled → false.
func (f *Field) Till(x, y int) (Cell, bool) {
	c := f.CellAt(x, y)
	if _, ok := f.plots[c]; ok {
		return c, false
	}
	f.plots[c] = nil
	return c, true
}

// Plant sows a seed on a tilled, empty plot.
func (f *Field) Plant(c Cell) model.Outcome {
	crop, ok := f.plots[c]
	if !ok {
		return model.NotFound
	}
	if crop != nil {
		return model.Occupied
	}
	if !f.wallet.Debit(model.Seeds, f.rules.SeedCost) {
		return model.InsufficientResources
	}
	f.plots[c] = &Crop{}
	return model.OK
}

// Tick advances every growing crop by elapsed.
func (f *Field) Tick(elapsed time.Duration) {
	for _, crop := range f.plots {
		if crop == nil || crop.Stage >= f.rules.MaxStage {
			continue
		}
		crop.Growing += elapsed
		for crop.Growing >= f.rules.GrowthEvery && crop.Stage < f.rules.MaxStage {
			crop.Growing -= f.rules.GrowthEvery
			crop.Stage++
		}
		if crop.Stage >= f.rules.MaxStage {
			crop.Growing = 0
		}
	}
}

// Harvest collects a ripe crop and empties the plot.
func (f *Field) Harvest(c Cell) (Harvest, model.Outcome, error) {
	crop, ok := f.plots[c]
	if !ok || crop == nil {
		return Harvest{}, model.NotFound, nil
	}
	if crop.Stage < f.rules.MaxStage {
		return Harvest{}, model.Unavailable, nil
	}
	h := Harvest{Gold: f.rules.GoldMin + gacha.IntN(f.rng, f.rules.GoldSpread), Seeds: 1}
	bonus, err := gacha.Draw(f.rules.BonusSeedP, f.rng)
	if err != nil {
		return Harvest{}, model.OK, err
	}
	if bonus {
		h.Seeds = 2
	}
	if err := f.wallet.Credit(model.Gold, h.Gold); err != nil {
		return Harvest{}, model.OK, err
	}
	if err := f.wallet.Credit(model.Seeds, h.Seeds); err != nil {
		return Harvest{}, model.OK, err
	}
	f.plots[c] = nil
	return h, model.OK, nil
}

// Crop reports the crop on c, if any.
func (f *Field) Crop(c Cell) (Crop, bool) {
	crop, ok := f.plots[c]
	if !ok || crop == nil {
		return Crop{}, false
	}
	return *crop, true
}

// Plots counts tilled plots.
func (f *Field) Plots() int { return len(f.plots) }
