package base

import (
	"testing"

	"github.com/xtding233/petgacha/internal/ids"
	"github.com/xtding233/petgacha/internal/ledger"
	"github.com/xtding233/petgacha/internal/model"
	"github.com/xtding233/petgacha/internal/store"
)

type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

func newBase(t *testing.T, res model.Resources) (*Base, *ledger.Ledger, *store.Collection) {
	t.Helper()
	l, err := ledger.New(res, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := store.New(nil)
	b, err := New(DefaultCatalog(), DefaultRecruitRules(), DefaultResearchRules(), l, c, fixed(0.5), &ids.Sequence{})
	if err != nil {
		t.Fatal(err)
	}
	return b, l, c
}

func rich() model.Resources {
	return model.Resources{model.Gold: 5000, model.Wood: 5000, model.Stone: 5000, model.Crystal: 100}
}

func TestPlaceSnapsAndDebits(t *testing.T) {
	b, l, c := newBase(t, model.Resources{model.Gold: 100, model.Wood: 50, model.Stone: 30})
	s, out, err := b.Place(model.Farm, 70, 40)
	if err != nil || out != model.OK {
		t.Fatalf("place: %v %s", err, out)
	}
	// floor(70/32)*32 + 128/2 = 64+64, floor(40/32)*32 + 96/2 = 32+48
	if s.Position != (model.Position{X: 128, Y: 80}) || s.Level != 1 || s.ID != "building_1" {
		t.Fatalf("structure = %+v", s)
	}
	if l.Balance(model.Gold) != 20 || l.Balance(model.Wood) != 10 || l.Balance(model.Stone) != 20 {
		t.Fatalf("balances %v", l.Snapshot())
	}
	if len(c.Structures()) != 1 {
		t.Fatalf("not stored")
	}
}

func TestPlaceInsufficientIsAllOrNothing(t *testing.T) {
	b, l, c := newBase(t, model.Resources{model.Gold: 100, model.Wood: 50, model.Stone: 5})
	_, out, err := b.Place(model.PetHouse, 0, 0)
	if err != nil || out != model.InsufficientResources {
		t.Fatalf("got %s %v", out, err)
	}
	if l.Balance(model.Gold) != 100 || l.Balance(model.Wood) != 50 || len(c.Structures()) != 0 {
		t.Fatalf("state changed: %v", l.Snapshot())
	}
}

func TestPlaceOverlapAndLock(t *testing.T) {
	b, l, _ := newBase(t, rich())
	if _, out, _ := b.Place(model.PetHouse, 100, 100); out != model.OK {
		t.Fatalf("first place %s", out)
	}
	gold := l.Balance(model.Gold)
	if _, out, _ := b.Place(model.RecruitCenter, 150, 120); out != model.Occupied {
		t.Fatalf("overlap got %s", out)
	}
	if l.Balance(model.Gold) != gold {
		t.Fatalf("occupied placement spent resources")
	}
	// 96 px to the right touches but does not overlap
	if _, out, _ := b.Place(model.RecruitCenter, 196, 100); out != model.OK {
		t.Fatalf("adjacent got %s", out)
	}
	if _, out, _ := b.Place(model.Lab, 600, 600); out != model.Locked {
		t.Fatalf("lab at level 1 got %s", out)
	}
	if _, out, err := b.Place("castle", 0, 0); err == nil || out != model.NotFound {
		t.Fatalf("unknown kind got %s %v", out, err)
	}
	if lvl, out := b.Upgrade(); out != model.OK || lvl != 2 {
		t.Fatalf("upgrade %d %s", lvl, out)
	}
	if _, out, _ := b.Place(model.Lab, 600, 600); out != model.OK {
		t.Fatalf("lab at level 2 got %s", out)
	}
}

func TestOverlaps(t *testing.T) {
	a := Spec{Width: 96, Height: 96}
	if !Overlaps(a, model.Position{X: 0, Y: 0}, a, model.Position{X: 95, Y: 0}) {
		t.Fatalf("95 apart should overlap")
	}
	if Overlaps(a, model.Position{X: 0, Y: 0}, a, model.Position{X: 96, Y: 0}) {
		t.Fatalf("96 apart should not overlap")
	}
}

func TestHarvest(t *testing.T) {
	b, l, c := newBase(t, rich())
	farm, _, _ := b.Place(model.Farm, 0, 0)
	house, _, _ := b.Place(model.PetHouse, 400, 400)
	food := l.Balance(model.Food)
	n, out, err := b.Harvest(farm.ID)
	if err != nil || out != model.OK || n != 10 || l.Balance(model.Food) != food+10 {
		t.Fatalf("harvest %d %s %v", n, out, err)
	}
	farm.Level = 3
	_ = c.UpdateStructure(farm)
	if n, _, _ := b.Harvest(farm.ID); n != 30 {
		t.Fatalf("level 3 harvest = %d", n)
	}
	if _, out, _ := b.Harvest(house.ID); out != model.Unavailable {
		t.Fatalf("harvest pet house got %s", out)
	}
	if _, out, _ := b.Harvest("ghost"); out != model.NotFound {
		t.Fatalf("harvest ghost got %s", out)
	}
}

func TestUpgradeCostScales(t *testing.T) {
	b, l, _ := newBase(t, model.Resources{model.Gold: 900, model.Wood: 300, model.Stone: 300})
	if _, out := b.Upgrade(); out != model.OK {
		t.Fatal(out)
	}
	if got := b.UpgradeCost()[model.Gold]; got != 600 {
		t.Fatalf("level 2 upgrade gold = %d", got)
	}
	if _, out := b.Upgrade(); out != model.OK {
		t.Fatal(out)
	}
	if l.Balance(model.Gold) != 0 || b.Level() != 3 {
		t.Fatalf("gold=%d level=%d", l.Balance(model.Gold), b.Level())
	}
	if _, out := b.Upgrade(); out != model.InsufficientResources {
		t.Fatalf("broke upgrade got %s", out)
	}
}

func TestRecruitAndAssign(t *testing.T) {
	b, l, c := newBase(t, rich())
	if _, out, _ := b.Recruit(); out != model.Unavailable {
		t.Fatalf("recruit without center got %s", out)
	}
	center, _, _ := b.Place(model.RecruitCenter, 0, 0)
	gold := l.Balance(model.Gold)
	tal, out, err := b.Recruit()
	if err != nil || out != model.OK {
		t.Fatalf("recruit %s %v", out, err)
	}
	if l.Balance(model.Gold) != gold-100 {
		t.Fatalf("recruit cost wrong")
	}
	// u = 0.5 picks index 2 of 5 names, index 2 of 4 roles, efficiency 1.0
	if tal.Name != "Qiang" || tal.Role != model.Trainer || tal.Level != 1 || tal.Efficiency < 0.9999 || tal.Efficiency > 1.0001 {
		t.Fatalf("talent = %+v", tal)
	}
	if out, err := b.Assign(center.ID, tal.ID); err != nil || out != model.OK {
		t.Fatalf("assign %s %v", out, err)
	}
	s, _ := c.Structure(center.ID)
	if s.AssignedTalent != tal.ID {
		t.Fatalf("assigned = %q", s.AssignedTalent)
	}
	if out, _ := b.Assign(center.ID, "ghost"); out != model.NotFound {
		t.Fatalf("assign ghost got %s", out)
	}
}

func TestResearchLifecycle(t *testing.T) {
	b, l, c := newBase(t, rich())
	if _, out, _ := b.Research("potion_attack"); out != model.Unavailable {
		t.Fatalf("research without lab got %s", out)
	}
	b.SetLevel(2)
	if _, out, _ := b.Place(model.Lab, 0, 0); out != model.OK {
		t.Fatal(out)
	}
	gold, crystal := l.Balance(model.Gold), l.Balance(model.Crystal)
	var tick ResearchTick
	for i := 1; i <= 5; i++ {
		var out model.Outcome
		var err error
		tick, out, err = b.Research("potion_attack")
		if err != nil || out != model.OK || tick.Progress != i*20 {
			t.Fatalf("tick %d: %+v %s %v", i, tick, out, err)
		}
	}
	if tick.Item == nil || tick.Item.Type != model.Potion || len(c.Items()) != 1 {
		t.Fatalf("completion item missing: %+v", tick)
	}
	if l.Balance(model.Gold) != gold-50 || l.Balance(model.Crystal) != crystal-5 {
		t.Fatalf("research must charge once")
	}
	if _, out, _ := b.Research("potion_attack"); out != model.AlreadyDone {
		t.Fatalf("completed research got %s", out)
	}
	if _, out, _ := b.Research("nope"); out != model.NotFound {
		t.Fatalf("unknown project got %s", out)
	}
	if b.Progress()["potion_attack"] != 100 {
		t.Fatalf("progress = %v", b.Progress())
	}
}

func TestResearchCannotAfford(t *testing.T) {
	b, _, c := newBase(t, model.Resources{model.Gold: 5000, model.Wood: 5000, model.Stone: 5000})
	b.SetLevel(2)
	_, _, _ = b.Place(model.Lab, 0, 0)
	if _, out, _ := b.Research("equip_basic"); out != model.InsufficientResources {
		t.Fatalf("no crystal got %s", out)
	}
	if b.Progress()["equip_basic"] != 0 || len(c.Items()) != 0 {
		t.Fatalf("progress moved without payment")
	}
}
