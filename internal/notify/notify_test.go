package notify

import "testing"

func TestOutboxDrainOrder(t *testing.T) {
	var o Outbox
	o.Emit(ResourceChanged{Kind: "gold", Value: 90})
	o.Emit(Loaded{})
	got := o.Drain()
	if len(got) != 2 || got[0].Name() != "resourceChanged" || got[1].Name() != "loaded" {
		t.Fatalf("drain = %v", got)
	}
	if o.Len() != 0 || len(o.Drain()) != 0 {
		t.Fatalf("outbox not emptied")
	}
}

func TestBusPublishAndCancel(t *testing.T) {
	b := NewBus()
	var first, second []string
	cancel := b.Subscribe(func(e Event) { first = append(first, e.Name()) })
	b.Subscribe(func(e Event) { second = append(second, e.Name()) })

	b.Publish(Loaded{}, ResourceChanged{})
	cancel()
	b.Publish(Loaded{})

	if len(first) != 2 {
		t.Fatalf("first got %v", first)
	}
	if len(second) != 3 || second[1] != "resourceChanged" {
		t.Fatalf("second got %v", second)
	}
}
