package ledger

import (
	"errors"
	"testing"

	"github.com/xtding233/petgacha/internal/model"
	"github.com/xtding233/petgacha/internal/notify"
)

func fresh(t *testing.T, sink notify.Sink) *Ledger {
	t.Helper()
	l, err := New(model.Resources{model.Gold: 100, model.Wood: 50, model.Stone: 30, model.Seeds: 10, model.Food: 20}, sink)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestDebitScenario(t *testing.T) {
	l := fresh(t, nil)
	if l.Debit(model.Gold, 150) {
		t.Fatalf("debit 150 of 100 must fail")
	}
	if got := l.Balance(model.Gold); got != 100 {
		t.Fatalf("gold after failed debit = %d", got)
	}
	if !l.Debit(model.Gold, 100) {
		t.Fatalf("debit 100 of 100 must succeed")
	}
	if got := l.Balance(model.Gold); got != 0 {
		t.Fatalf("gold after debit = %d", got)
	}
}

func TestDebitProperty(t *testing.T) {
	for bal := 0; bal <= 20; bal++ {
		for amt := 0; amt <= 25; amt++ {
			l, _ := New(model.Resources{model.Food: bal}, nil)
			ok := l.Debit(model.Food, amt)
			if ok != (bal >= amt) {
				t.Fatalf("bal=%d amt=%d ok=%v", bal, amt, ok)
			}
			want := bal
			if ok {
				want = bal - amt
			}
			if got := l.Balance(model.Food); got != want {
				t.Fatalf("bal=%d amt=%d got=%d want=%d", bal, amt, got, want)
			}
		}
	}
}

func TestCredit(t *testing.T) {
	var box notify.Outbox
	l := fresh(t, &box)
	if err := l.Credit(model.Crystal, 7); err != nil {
		t.Fatal(err)
	}
	if err := l.Credit(model.Crystal, 0); err != nil {
		t.Fatal(err)
	}
	if got := l.Balance(model.Crystal); got != 7 {
		t.Fatalf("crystal = %d", got)
	}
	if err := l.Credit(model.Crystal, -1); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("negative credit err = %v", err)
	}
	if err := l.Credit("mana", 1); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("unknown kind err = %v", err)
	}
	evs := box.Drain()
	if len(evs) != 2 {
		t.Fatalf("events = %v", evs)
	}
	if rc := evs[0].(notify.ResourceChanged); rc.Kind != model.Crystal || rc.Value != 7 {
		t.Fatalf("event = %+v", rc)
	}
}

func TestDebitAllIsAllOrNothing(t *testing.T) {
	var box notify.Outbox
	l := fresh(t, &box)
	cost := model.Cost{model.Wood: 30, model.Stone: 40, model.Gold: 80}
	if l.DebitAll(cost) {
		t.Fatalf("stone 30 < 40, must fail")
	}
	if l.Balance(model.Wood) != 50 || l.Balance(model.Stone) != 30 || l.Balance(model.Gold) != 100 {
		t.Fatalf("partial debit leaked: %v", l.Snapshot())
	}
	if box.Len() != 0 {
		t.Fatalf("failed debit emitted events")
	}

	if !l.DebitAll(model.Cost{model.Wood: 40, model.Stone: 10, model.Gold: 80}) {
		t.Fatalf("affordable bundle rejected")
	}
	want := model.Resources{model.Gold: 20, model.Wood: 10, model.Stone: 20, model.Seeds: 10, model.Food: 20, model.Crystal: 0}
	for k, v := range want {
		if l.Balance(k) != v {
			t.Fatalf("%s = %d want %d", k, l.Balance(k), v)
		}
	}
	if box.Len() != 3 {
		t.Fatalf("want 3 events, got %d", box.Len())
	}
}

func TestNewRejectsNegative(t *testing.T) {
	if _, err := New(model.Resources{model.Gold: -1}, nil); err == nil {
		t.Fatalf("negative seed must error")
	}
}
