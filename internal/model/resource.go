package model

import "fmt"

// ResourceKind names one of the fixed resource counters.
type ResourceKind string

const (
	Gold    ResourceKind = "gold"
	Wood    ResourceKind = "wood"
	Stone   ResourceKind = "stone"
	Seeds   ResourceKind = "seeds"
	Food    ResourceKind = "food"
	Crystal ResourceKind = "crystal"
)

// ResourceKinds is the full counter set in display order.
var ResourceKinds = []ResourceKind{Gold, Wood, Stone, Seeds, Food, Crystal}

// Valid reports whether k is a known counter.
func (k ResourceKind) Valid() bool {
	for _, v := range ResourceKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Resources is a point-in-time copy of every counter.
type Resources map[ResourceKind]int

// Clone returns an independent copy.
func (r Resources) Clone() Resources {
	out := make(Resources, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Validate checks that every counter is known and non-negative.
func (r Resources) Validate() error {
	for k, v := range r {
		if !k.Valid() {
			return fmt.Errorf("unknown resource %q", k)
		}
		if v < 0 {
			return fmt.Errorf("resource %s is negative: %d", k, v)
		}
	}
	return nil
}

// Cost is a multi-resource price. Zero entries are ignored.
type Cost map[ResourceKind]int

// Times scales every entry by n.
func (c Cost) Times(n int) Cost {
	out := make(Cost, len(c))
	for k, v := range c {
		out[k] = v * n
	}
	return out
}

// GoldCost returns a cost of n gold.
func GoldCost(n int) Cost { return Cost{Gold: n} }
