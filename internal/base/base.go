package base

import (
	"errors"
	"fmt"

	"github.com/xtding233/petgacha/internal/gacha"
	"github.com/xtding233/petgacha/internal/ids"
	"github.com/xtding233/petgacha/internal/model"
)

var ErrUnknownKind = errors.New("unknown structure kind")

// Wallet is the ledger surface the base spends from and pays into.
type Wallet interface {
	CanAfford(model.Cost) bool
	DebitAll(model.Cost) bool
	Credit(model.ResourceKind, int) error
}

// Store is the collection surface the base reads and appends to.
type Store interface {
	Structures() []model.Structure
	Structure(id string) (model.Structure, bool)
	AddStructure(model.Structure) error
	UpdateStructure(model.Structure) error
	HasStructure(model.StructureKind) bool
	Talent(id string) (model.Talent, bool)
	AddTalent(model.Talent) error
	AddItem(model.Item) error
}

type RandomSource = gacha.RandomSource

// Base owns the base level and research progress and runs every base action.
// Not safe for concurrent use.
type Base struct {
	catalog  Catalog
	recruit  RecruitRules
	research ResearchRules

	level    int
	progress map[string]int

	wallet Wallet
	store  Store
	rng    RandomSource
	ids    ids.Generator
}

func New(cat Catalog, rec RecruitRules, res ResearchRules, wallet Wallet, store Store, rng RandomSource, gen ids.Generator) (*Base, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		gen = ids.UUID()
	}
	return &Base{
		catalog:  cat,
		recruit:  rec,
		research: res,
		level:    1,
		progress: map[string]int{},
		wallet:   wallet,
		store:    store,
		rng:      rng,
		ids:      gen,
	}, nil
}

// Reconfigure swaps the static rules, keeping level and progress.
func (b *Base) Reconfigure(cat Catalog, rec RecruitRules, res ResearchRules) error {
	if err := cat.Validate(); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := res.Validate(); err != nil {
		return err
	}
	b.catalog, b.recruit, b.research = cat, rec, res
	return nil
}

func (b *Base) Catalog() Catalog { return b.catalog }

func (b *Base) Level() int { return b.level }

// SetLevel is used by snapshot restore; values below 1 become 1.
func (b *Base) SetLevel(l int) {
	if l < 1 {
		l = 1
	}
	b.level = l
}

// Place snaps (x, y) to the grid and builds kind there.
// Checks run in order: unlock level, affordability, overlap.
func (b *Base) Place(kind model.StructureKind, x, y int) (model.Structure, model.Outcome, error) {
	spec, ok := b.catalog.Specs[kind]
	if !ok {
		return model.Structure{}, model.NotFound, fmt.Errorf("%s: %w", kind, ErrUnknownKind)
	}
	if b.level < spec.UnlockLevel {
		return model.Structure{}, model.Locked, nil
	}
	if !b.wallet.CanAfford(spec.Cost) {
		return model.Structure{}, model.InsufficientResources, nil
	}
	pos := b.catalog.Snap(spec, x, y)
	for _, s := range b.store.Structures() {
		other, ok := b.catalog.Specs[s.Type]
		if !ok {
			continue
		}
		if Overlaps(spec, pos, other, s.Position) {
			return model.Structure{}, model.Occupied, nil
		}
	}
	if !b.wallet.DebitAll(spec.Cost) {
		return model.Structure{}, model.InsufficientResources, nil
	}
	s := model.Structure{ID: b.ids.Next("building"), Type: kind, Level: 1, Position: pos}
	if err := b.store.AddStructure(s); err != nil {
		return model.Structure{}, model.OK, err
	}
	return s, model.OK, nil
}

// Harvest collects a farm's food yield: level * FarmYield.
func (b *Base) Harvest(structureID string) (int, model.Outcome, error) {
	s, ok := b.store.Structure(structureID)
	if !ok {
		return 0, model.NotFound, nil
	}
	if s.Type != model.Farm {
		return 0, model.Unavailable, nil
	}
	amount := s.Level * b.catalog.FarmYield
	if err := b.wallet.Credit(model.Food, amount); err != nil {
		return 0, model.OK, err
	}
	return amount, model.OK, nil
}

// UpgradeCost is the price to leave the current base level.
func (b *Base) UpgradeCost() model.Cost { return b.catalog.UpgradeCost.Times(b.level) }

// Upgrade raises the base level by one.
func (b *Base) Upgrade() (int, model.Outcome) {
	if !b.wallet.DebitAll(b.UpgradeCost()) {
		return b.level, model.InsufficientResources
	}
	b.level++
	return b.level, model.OK
}

// Assign puts a talent in charge of a structure.
func (b *Base) Assign(structureID, talentID string) (model.Outcome, error) {
	s, ok := b.store.Structure(structureID)
	if !ok {
		return model.NotFound, nil
	}
	if _, ok := b.store.Talent(talentID); !ok {
		return model.NotFound, nil
	}
	s.AssignedTalent = talentID
	return model.OK, b.store.UpdateStructure(s)
}
