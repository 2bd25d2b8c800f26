package notify

import "sync"

// Handler consumes a published event.
type Handler func(Event)

// Bus fans events out to subscribers.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]Handler)}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (cancel func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = h
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers events in order to every subscriber, in subscription order.
func (b *Bus) Publish(events ...Event) {
	if len(events) == 0 {
		return
	}
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.subs))
	for id := 0; id < b.next; id++ {
		if h, ok := b.subs[id]; ok {
			hs = append(hs, h)
		}
	}
	b.mu.RUnlock()
	for _, e := range events {
		for _, h := range hs {
			h(e)
		}
	}
}
