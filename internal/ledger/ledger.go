// Package ledger holds the resource counters. Every spend in the game goes
// through Debit or DebitAll, which never let a counter go below zero.
package ledger

import (
	"errors"
	"fmt"

	"github.com/xtding233/petgacha/internal/model"
	"github.com/xtding233/petgacha/internal/notify"
)

var (
	ErrUnknownKind    = errors.New("unknown resource kind")
	ErrNegativeAmount = errors.New("amount must be >= 0")
)

// Ledger is the set of named counters. Not safe for concurrent use.
type Ledger struct {
	counters map[model.ResourceKind]int
	sink     notify.Sink
}

// New builds a ledger seeded from initial; kinds it omits start at zero.
func New(initial model.Resources, sink notify.Sink) (*Ledger, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = notify.Discard
	}
	l := &Ledger{counters: make(map[model.ResourceKind]int, len(model.ResourceKinds)), sink: sink}
	for _, k := range model.ResourceKinds {
		l.counters[k] = initial[k]
	}
	return l, nil
}

// Balance returns the current value of k (0 for unknown kinds).
func (l *Ledger) Balance(k model.ResourceKind) int { return l.counters[k] }

// Credit adds amount to k.
func (l *Ledger) Credit(k model.ResourceKind, amount int) error {
	if !k.Valid() {
		return fmt.Errorf("credit %q: %w", k, ErrUnknownKind)
	}
	if amount < 0 {
		return fmt.Errorf("credit %s %d: %w", k, amount, ErrNegativeAmount)
	}
	l.counters[k] += amount
	l.sink.Emit(notify.ResourceChanged{Kind: k, Value: l.counters[k]})
	return nil
}

// Debit subtracts amount from k iff the balance covers it.
// Unknown kinds and negative amounts are rejected.
func (l *Ledger) Debit(k model.ResourceKind, amount int) bool {
	if !k.Valid() || amount < 0 || l.counters[k] < amount {
		return false
	}
	l.counters[k] -= amount
	l.sink.Emit(notify.ResourceChanged{Kind: k, Value: l.counters[k]})
	return true
}

// CanAfford reports whether every entry of c is covered.
func (l *Ledger) CanAfford(c model.Cost) bool {
	for k, v := range c {
		if v == 0 {
			continue
		}
		if !k.Valid() || v < 0 || l.counters[k] < v {
			return false
		}
	}
	return true
}

// DebitAll spends the whole bundle or nothing.
func (l *Ledger) DebitAll(c model.Cost) bool {
	if !l.CanAfford(c) {
		return false
	}
	// stable order so notifications are deterministic
	for _, k := range model.ResourceKinds {
		if v := c[k]; v > 0 {
			l.Debit(k, v)
		}
	}
	return true
}

// Snapshot copies every counter.
func (l *Ledger) Snapshot() model.Resources {
	out := make(model.Resources, len(l.counters))
	for k, v := range l.counters {
		out[k] = v
	}
	return out
}
