package ids

import (
	"strings"
	"testing"
)

func TestUUIDUnique(t *testing.T) {
	g := UUID()
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := g.Next("pet")
		if !strings.HasPrefix(id, "pet_") || seen[id] {
			t.Fatalf("bad or duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestSequencePerPrefix(t *testing.T) {
	var s Sequence
	if got := s.Next("pet"); got != "pet_1" {
		t.Fatalf("got %s", got)
	}
	if got := s.Next("card"); got != "card_1" {
		t.Fatalf("got %s", got)
	}
	if got := s.Next("pet"); got != "pet_2" {
		t.Fatalf("got %s", got)
	}
}
