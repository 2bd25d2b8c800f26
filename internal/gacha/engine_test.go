package gacha_test

import (
	"errors"
	"testing"

	"github.com/xtding233/petgacha/internal/gacha"
	"github.com/xtding233/petgacha/internal/ids"
	"github.com/xtding233/petgacha/internal/ledger"
	"github.com/xtding233/petgacha/internal/model"
	"github.com/xtding233/petgacha/internal/store"
)

func newEngine(t *testing.T, gold int, scope gacha.PityScope, rng gacha.RandomSource) (*gacha.Engine, *ledger.Ledger, *store.Collection) {
	t.Helper()
	l, err := ledger.New(model.Resources{model.Gold: gold}, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := store.New(nil)
	cfg := gacha.Config{
		Pools: []gacha.Pool{
			{ID: "standard", Name: "Standard", Cost: 10, Weights: standard},
			{ID: "premium", Name: "Premium", Cost: 50, Weights: gacha.Weights{0.4, 0.4, 0.15, 0.05}},
		},
		Pity:  50,
		Scope: scope,
		Table: gacha.DefaultTable(),
	}
	e, err := gacha.NewEngine(cfg, l, c, rng, &ids.Sequence{})
	if err != nil {
		t.Fatal(err)
	}
	return e, l, c
}

func TestPullScenarioPityForcesLegendary(t *testing.T) {
	// 0.99 rolls common every time; jitter and name draws reuse it
	e, l, c := newEngine(t, 100, gacha.PityPerPool, &script{vals: []float64{0.99}})
	if err := e.SetPity("standard", 49); err != nil {
		t.Fatal(err)
	}
	res, err := e.Pull("standard")
	if err != nil {
		t.Fatal(err)
	}
	if res.Natural != model.Common || res.Rarity != model.Legendary || !res.Forced {
		t.Fatalf("got natural=%s rarity=%s forced=%v", res.Natural, res.Rarity, res.Forced)
	}
	if res.Pity != 0 {
		t.Fatalf("pity after forced pull = %d", res.Pity)
	}
	if res.Stage != gacha.StageMaterialized || res.Outcome != model.OK {
		t.Fatalf("stage=%s outcome=%s", res.Stage, res.Outcome)
	}
	if l.Balance(model.Gold) != 90 {
		t.Fatalf("gold = %d", l.Balance(model.Gold))
	}
	cr := res.Creature
	if cr.Attack != 44 || cr.Defense != 27 || cr.Name != "Azure Dragon" || cr.Level != 1 || cr.Exp != 0 {
		t.Fatalf("creature = %+v", cr)
	}
	if _, ok := c.Creature(cr.ID); !ok {
		t.Fatalf("creature not stored")
	}
	cards := c.Cards()
	if len(cards) != 1 || cards[0].ID != res.Card.ID || cards[0].Category() != model.CategoryPet {
		t.Fatalf("cards = %+v", cards)
	}
	if got := cards[0].Reward.(model.CreatureReward).Creature; got.ID != cr.ID {
		t.Fatalf("card payload = %+v", got)
	}
}

func TestPullCannotAfford(t *testing.T) {
	e, l, c := newEngine(t, 5, gacha.PityPerPool, gacha.NewSeededRNG(1))
	_ = e.SetPity("standard", 12)
	res, err := e.Pull("standard")
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != model.InsufficientResources || res.Stage != gacha.StageIdle {
		t.Fatalf("res = %+v", res)
	}
	if p, _ := e.Pity("standard"); p != 12 {
		t.Fatalf("pity changed to %d", p)
	}
	if l.Balance(model.Gold) != 5 || len(c.Creatures()) != 0 || len(c.Cards()) != 0 {
		t.Fatalf("state changed on failed pull")
	}
}

func TestPullIDClashRefunds(t *testing.T) {
	e, l, c := newEngine(t, 100, gacha.PityPerPool, gacha.NewSeededRNG(3))
	// the engine's Sequence mints pet_1 next
	if err := c.AddCreature(model.Creature{ID: "pet_1", Name: "Old", Level: 1}); err != nil {
		t.Fatal(err)
	}
	_ = e.SetPity("standard", 7)
	res, err := e.Pull("standard")
	if !errors.Is(err, gacha.ErrIDTaken) {
		t.Fatalf("err = %v", err)
	}
	if res.Stage != gacha.StageIdle || res.Pity != 7 {
		t.Fatalf("res = %+v", res)
	}
	if p, _ := e.Pity("standard"); p != 7 {
		t.Fatalf("pity changed to %d", p)
	}
	if l.Balance(model.Gold) != 100 || len(c.Creatures()) != 1 || len(c.Cards()) != 0 {
		t.Fatalf("gold=%d creatures=%d cards=%d", l.Balance(model.Gold), len(c.Creatures()), len(c.Cards()))
	}

	// next mint is pet_2, which is free
	if res, err = e.Pull("standard"); err != nil || res.Outcome != model.OK {
		t.Fatalf("second pull: %+v %v", res, err)
	}
	if l.Balance(model.Gold) != 90 {
		t.Fatalf("gold = %d", l.Balance(model.Gold))
	}
}

func TestPullUnknownPool(t *testing.T) {
	e, _, _ := newEngine(t, 100, gacha.PityPerPool, nil)
	if _, err := e.Pull("nope"); !errors.Is(err, gacha.ErrUnknownPool) {
		t.Fatalf("err = %v", err)
	}
	if _, err := e.TenPull("nope"); !errors.Is(err, gacha.ErrUnknownPool) {
		t.Fatalf("err = %v", err)
	}
}

func TestTenPullTruncatesOnExhaustion(t *testing.T) {
	e, l, c := newEngine(t, 35, gacha.PityPerPool, gacha.NewSeededRNG(9))
	res, err := e.TenPull("standard")
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 3 {
		t.Fatalf("want 3 results, got %d", len(res))
	}
	if l.Balance(model.Gold) != 5 || len(c.Cards()) != 3 || len(c.Creatures()) != 3 {
		t.Fatalf("gold=%d cards=%d", l.Balance(model.Gold), len(c.Cards()))
	}
	seen := map[string]bool{}
	for _, r := range res {
		if seen[r.Creature.ID] {
			t.Fatalf("duplicate id %s", r.Creature.ID)
		}
		seen[r.Creature.ID] = true
	}
}

func TestMaterializeBounds(t *testing.T) {
	table := gacha.DefaultTable()
	rng := gacha.NewSeededRNG(5)
	for i := 0; i < 2000; i++ {
		r := model.Rarities[i%model.NumRarities]
		cr := table.Materialize("x", r, rng)
		base := table.Base[r]
		if cr.Attack < base.Attack || cr.Attack > base.Attack+4 || cr.Defense < base.Defense || cr.Defense > base.Defense+2 {
			t.Fatalf("%s out of bounds: %+v", r, cr)
		}
		found := false
		for _, n := range table.Names[r] {
			found = found || n == cr.Name
		}
		if !found {
			t.Fatalf("%s name %q not in pool", r, cr.Name)
		}
	}
}

func TestPityScope(t *testing.T) {
	e, _, _ := newEngine(t, 1000, gacha.PityPerPool, &script{vals: []float64{0.99}})
	if _, err := e.Pull("standard"); err != nil {
		t.Fatal(err)
	}
	if p, _ := e.Pity("standard"); p != 1 {
		t.Fatalf("standard pity = %d", p)
	}
	if p, _ := e.Pity("premium"); p != 0 {
		t.Fatalf("per-pool pity leaked into premium: %d", p)
	}

	g, _, _ := newEngine(t, 1000, gacha.PityGlobal, &script{vals: []float64{0.99}})
	_, _ = g.Pull("standard")
	_, _ = g.Pull("premium")
	if p, _ := g.Pity("standard"); p != 2 {
		t.Fatalf("global pity = %d", p)
	}
	counts := g.PityCounts()
	if counts["*"] != 2 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestRestoreAndReconfigureKeepCounters(t *testing.T) {
	e, _, _ := newEngine(t, 0, gacha.PityPerPool, nil)
	e.RestorePity(map[string]int{"standard": 17, "ghost": 3})
	if p, _ := e.Pity("standard"); p != 17 {
		t.Fatalf("restored = %d", p)
	}
	if p, _ := e.Pity("premium"); p != 0 {
		t.Fatalf("missing key should reset: %d", p)
	}
	err := e.Reconfigure(gacha.Config{
		Pools: []gacha.Pool{{ID: "standard", Cost: 20, Weights: standard}},
		Pity:  60,
		Table: gacha.DefaultTable(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := e.Pity("standard"); p != 17 {
		t.Fatalf("counter lost on reconfigure: %d", p)
	}
	if _, ok := e.Pool("premium"); ok {
		t.Fatalf("premium should be gone")
	}
	if e.PityThreshold() != 60 {
		t.Fatalf("threshold = %d", e.PityThreshold())
	}
}

func TestNewEngineRejectsBadPools(t *testing.T) {
	l, _ := ledger.New(nil, nil)
	_, err := gacha.NewEngine(gacha.Config{
		Pools: []gacha.Pool{{ID: "x", Weights: gacha.Weights{0.5, 0.2, 0, 0}}},
		Pity:  50,
		Table: gacha.DefaultTable(),
	}, l, store.New(nil), nil, nil)
	if !errors.Is(err, gacha.ErrInvalidWeights) {
		t.Fatalf("err = %v", err)
	}
}

func TestSimulateMatchesWeightsWithoutPity(t *testing.T) {
	res := gacha.Simulate(gacha.Pool{ID: "s", Weights: standard}, 0, 100000, gacha.NewSeededRNG(11))
	if res.Forced != 0 {
		t.Fatalf("pity disabled but forced=%d", res.Forced)
	}
	for r, f := range res.Freq {
		if d := f - standard[r]; d > 0.01 || d < -0.01 {
			t.Fatalf("%s freq=%f want %f", model.Rarity(r), f, standard[r])
		}
	}
	if m := res.UntilLegendary.Mean; m < 40 || m > 60 {
		t.Fatalf("mean pulls until legendary = %f", m)
	}
}
