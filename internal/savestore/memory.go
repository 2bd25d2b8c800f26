package savestore

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory keeps slots in process memory.
type Memory struct {
	mu    sync.RWMutex
	slots map[string]memSlot
	now   func() time.Time
}

type memSlot struct {
	data []byte
	info Info
}

func NewMemory() *Memory {
	return &Memory{slots: map[string]memSlot{}, now: time.Now}
}

func (m *Memory) Put(_ context.Context, slot string, data []byte) (Info, error) {
	if err := CheckSlot(slot); err != nil {
		return Info{}, err
	}
	info := Info{Slot: slot, Size: len(data), Digest: Digest(data), SavedAt: m.now().UTC()}
	m.mu.Lock()
	m.slots[slot] = memSlot{data: append([]byte(nil), data...), info: info}
	m.mu.Unlock()
	return info, nil
}

func (m *Memory) Get(_ context.Context, slot string) ([]byte, error) {
	if err := CheckSlot(slot); err != nil {
		return nil, err
	}
	m.mu.RLock()
	s, ok := m.slots[slot]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSlotNotFound
	}
	return append([]byte(nil), s.data...), nil
}

func (m *Memory) List(context.Context) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Info, 0, len(m.slots))
	for _, s := range m.slots {
		out = append(out, s.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (m *Memory) Close() error { return nil }
