// Package ids mints entity identifiers such as "pet_3f0c...".
package ids

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Generator returns a fresh id with the given prefix.
type Generator interface {
	Next(prefix string) string
}

type uuidGen struct{}

// UUID returns a Generator backed by random v4 UUIDs.
func UUID() Generator { return uuidGen{} }

func (uuidGen) Next(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Sequence is a deterministic Generator for tests and replays: pet_1, pet_2, card_1...
type Sequence struct {
	mu sync.Mutex
	n  map[string]int
}

func (s *Sequence) Next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.n == nil {
		s.n = make(map[string]int)
	}
	s.n[prefix]++
	return prefix + "_" + strconv.Itoa(s.n[prefix])
}
