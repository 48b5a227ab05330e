package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rl1809/primo-pizza/internal/port"
)

// MemoryStore keeps documents in process. Atomic calls are serialized.
type MemoryStore struct {
	mu     sync.Mutex
	docs   map[string][]byte
	claims map[string]time.Time
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:   make(map[string][]byte),
		claims: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	data, ok := m.docs[key]
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	return true, decode(key, data, dst)
}

func (m *MemoryStore) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	m.mu.Lock()
	m.docs[key] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Atomic(ctx context.Context, keys []string, fn func(ctx context.Context, tx port.Documents) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := newStagedTx("", keys, func(ctx context.Context, key string) ([]byte, bool, error) {
		data, ok := m.docs[key]
		return data, ok, nil
	})

	if err := fn(ctx, staged); err != nil {
		return err
	}

	return staged.each(func(key string, data []byte) error {
		m.docs[key] = data
		return nil
	})
}

func (m *MemoryStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if exp, ok := m.claims[key]; ok && now.Before(exp) {
		return false, nil
	}
	m.claims[key] = now.Add(ttl)
	return true, nil
}

func (m *MemoryStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.claims, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
