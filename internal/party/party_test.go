package party

import (
	"strconv"
	"testing"

	"github.com/xtding233/petgacha/internal/model"
	"github.com/xtding233/petgacha/internal/store"
)

func roster(t *testing.T, n int) *store.Collection {
	t.Helper()
	c := store.New(nil)
	for i := 1; i <= n; i++ {
		cr := model.Creature{ID: "pet_" + strconv.Itoa(i), Level: 1, Attack: i * 10, Defense: i}
		if err := c.AddCreature(cr); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestSummonCapAndStats(t *testing.T) {
	c := roster(t, 4)
	p, err := New(DefaultRules(), c)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"pet_1", "pet_2", "pet_3"} {
		if out := p.Summon(id); out != model.OK {
			t.Fatalf("summon %s = %s", id, out)
		}
	}
	if out := p.Summon("pet_4"); out != model.Occupied {
		t.Fatalf("fourth summon = %s", out)
	}
	if out := p.Summon("pet_2"); out != model.AlreadyDone {
		t.Fatalf("repeat summon = %s", out)
	}
	if out := p.Summon("pet_9"); out != model.NotFound {
		t.Fatalf("unknown summon = %s", out)
	}
	if s := p.Stats(); s.Attack != 60 || s.Defense != 6 {
		t.Fatalf("stats = %+v", s)
	}

	if out := p.Dismiss("pet_2"); out != model.OK {
		t.Fatalf("dismiss = %s", out)
	}
	if out := p.Dismiss("pet_2"); out != model.NotFound {
		t.Fatalf("second dismiss = %s", out)
	}
	if out := p.Summon("pet_4"); out != model.OK {
		t.Fatalf("summon after dismiss = %s", out)
	}
	got := p.Active()
	if len(got) != 3 || got[0] != "pet_1" || got[1] != "pet_3" || got[2] != "pet_4" {
		t.Fatalf("active = %v", got)
	}
}

func TestStatsFollowLevelUps(t *testing.T) {
	c := roster(t, 1)
	p, _ := New(DefaultRules(), c)
	p.Summon("pet_1")
	cr, _ := c.Creature("pet_1")
	cr.Attack += 2
	if err := c.UpdateCreature(cr); err != nil {
		t.Fatal(err)
	}
	if s := p.Stats(); s.Attack != 12 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestRestoreAndReconfigure(t *testing.T) {
	c := roster(t, 3)
	p, _ := New(DefaultRules(), c)
	p.Restore([]string{"pet_3", "ghost", "pet_3", "pet_1", "pet_2"})
	got := p.Active()
	if len(got) != 3 || got[0] != "pet_3" || got[1] != "pet_1" || got[2] != "pet_2" {
		t.Fatalf("restored = %v", got)
	}
	if err := p.Reconfigure(Rules{MaxActive: 1}); err != nil {
		t.Fatal(err)
	}
	if got := p.Active(); len(got) != 1 || got[0] != "pet_3" {
		t.Fatalf("after shrink = %v", got)
	}
	if err := p.Reconfigure(Rules{}); err == nil {
		t.Fatalf("zero cap must be rejected")
	}
	if _, err := New(Rules{MaxActive: 0}, c); err == nil {
		t.Fatalf("New must reject zero cap")
	}
}
