// Package savestore keeps encoded snapshots in named slots.
package savestore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	"lukechampine.com/blake3"
)

var (
	ErrSlotNotFound = errors.New("save slot not found")
	ErrBadSlot      = errors.New("invalid save slot name")
	ErrCorrupt      = errors.New("save data does not match its digest")
)

var slotRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Info describes one stored slot.
type Info struct {
	Slot    string    `json:"slot"`
	Size    int       `json:"size"` // snapshot bytes before compression
	Digest  string    `json:"digest"`
	SavedAt time.Time `json:"savedAt"`
}

// Store is a slot-keyed blob store for snapshots.
type Store interface {
	Put(ctx context.Context, slot string, data []byte) (Info, error)
	Get(ctx context.Context, slot string) ([]byte, error)
	List(ctx context.Context) ([]Info, error)
	Close() error
}

// CheckSlot validates a slot name.
func CheckSlot(slot string) error {
	if !slotRe.MatchString(slot) {
		return fmt.Errorf("%w: %q", ErrBadSlot, slot)
	}
	return nil
}

// Digest is the hex blake3-256 of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func verify(slot string, data []byte, digest string) error {
	if Digest(data) != digest {
		return fmt.Errorf("%w: slot %s", ErrCorrupt, slot)
	}
	return nil
}

// Open builds a store by backend name: "file" (dir = directory) or
// "sqlite" (dir = database path).
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", "file":
		fs, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case "sqlite":
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown save backend %q", backend)
	}
}
