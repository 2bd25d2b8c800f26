package gacha_test

import (
	"testing"

	"github.com/xtding233/petgacha/internal/gacha"
	"github.com/xtding233/petgacha/internal/model"
)

func TestPitySystem(t *testing.T) {
	ps := gacha.NewPitySystem(10)

	// first 9 common pulls should not be forced
	for i := 0; i < 9; i++ {
		got, forced := ps.Evaluate(model.Common)
		if forced || got != model.Common {
			t.Fatalf("should not force before pity, i=%d", i)
		}
	}
	if ps.Count != 9 {
		t.Fatalf("count = %d", ps.Count)
	}
	// the 10th pull is guaranteed
	got, forced := ps.Evaluate(model.Common)
	if !forced || got != model.Legendary {
		t.Fatalf("expected pity legendary at 10th pull; got %s forced=%v", got, forced)
	}
	if ps.Count != 0 {
		t.Fatalf("count should reset after pity hit; got %d", ps.Count)
	}
}

func TestPityResetRules(t *testing.T) {
	for _, r := range model.Rarities {
		ps := gacha.NewPitySystem(50)
		ps.Count = 7
		got, forced := ps.Evaluate(r)
		if forced || got != r {
			t.Fatalf("%s: unexpected override", r)
		}
		want := 8
		if r.High() {
			want = 0
		}
		if ps.Count != want {
			t.Fatalf("%s: count=%d want %d", r, ps.Count, want)
		}
	}
}

func TestPityAtThresholdMinusOne(t *testing.T) {
	for _, r := range model.Rarities {
		ps := gacha.NewPitySystem(50)
		ps.Count = 49
		got, _ := ps.Evaluate(r)
		if got != model.Legendary || ps.Count != 0 {
			t.Fatalf("natural %s: got %s count=%d", r, got, ps.Count)
		}
	}
}

func TestPityDisabled(t *testing.T) {
	ps := gacha.NewPitySystem(0)
	for i := 0; i < 500; i++ {
		if _, forced := ps.Evaluate(model.Common); forced {
			t.Fatalf("disabled pity forced at %d", i)
		}
	}
}

func TestSoftPityRampsLegendary(t *testing.T) {
	pool := gacha.Pool{
		ID:      "soft",
		Cost:    0,
		Weights: standard,
		Soft:    &gacha.SoftPityConfig{StartAt: 30, TargetProb: 0.5},
	}
	if err := pool.Validate(50); err != nil {
		t.Fatal(err)
	}
	// only pulls that reach the ramp see a boosted legendary rate
	plain := gacha.Simulate(gacha.Pool{ID: "plain", Weights: standard}, 50, 100000, gacha.NewSeededRNG(3))
	soft := gacha.Simulate(pool, 50, 100000, gacha.NewSeededRNG(3))
	if soft.Freq[model.Legendary] <= plain.Freq[model.Legendary] {
		t.Fatalf("soft ramp should raise legendary rate: soft=%f plain=%f", soft.Freq[model.Legendary], plain.Freq[model.Legendary])
	}
	if soft.Forced >= plain.Forced {
		t.Fatalf("soft ramp should reduce hard pity hits: soft=%d plain=%d", soft.Forced, plain.Forced)
	}

	bad := gacha.Pool{ID: "bad", Weights: standard, Soft: &gacha.SoftPityConfig{StartAt: 49, TargetProb: 0.5}}
	if err := bad.Validate(50); err == nil {
		t.Fatalf("start_at >= pity-1 must fail")
	}
}
