package kvstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store. It survives nothing but is handy for tests and demos.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// InTx stages writes and applies them together once fn succeeds.
func (m *Memory) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	buf := newStaged(m)
	if err := fn(ctx, buf); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range buf.order {
		if buf.deletes[key] {
			delete(m.data, key)
			continue
		}
		m.data[key] = buf.writes[key]
	}
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
