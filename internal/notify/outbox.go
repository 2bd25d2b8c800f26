package notify

// Sink receives events as they are produced.
type Sink interface {
	Emit(Event)
}

// Discard drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Event) {}

// Outbox buffers events produced during one action until they are drained.
// Not safe for concurrent use; the owner serializes access.
type Outbox struct {
	events []Event
}

func (o *Outbox) Emit(e Event) { o.events = append(o.events, e) }

// Drain returns buffered events in emission order and empties the outbox.
func (o *Outbox) Drain() []Event {
	out := o.events
	o.events = nil
	return out
}

func (o *Outbox) Len() int { return len(o.events) }
