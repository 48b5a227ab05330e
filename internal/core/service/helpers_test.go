package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rl1809/primo-pizza/internal/adapter/storage"
	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/port"
)

var errBoom = errors.New("boom")

func newSeededStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, Bootstrap(context.Background(), store, time.Now()))
	return store
}

func newTestServices(t *testing.T, opts OrderOptions) (*Services, *storage.MemoryStore) {
	t.Helper()
	store := newSeededStore(t)
	return New(Deps{Store: store, Guard: store, Orders: opts}), store
}

// failingStore fails every staged Put to failKey, after fn has already
// written the other keys.
type failingStore struct {
	*storage.MemoryStore
	failKey string
}

func (f *failingStore) Atomic(ctx context.Context, keys []string, fn func(ctx context.Context, tx port.Documents) error) error {
	return f.MemoryStore.Atomic(ctx, keys, func(ctx context.Context, tx port.Documents) error {
		return fn(ctx, failingDocs{Documents: tx, failKey: f.failKey})
	})
}

type failingDocs struct {
	port.Documents
	failKey string
}

func (d failingDocs) Put(ctx context.Context, key string, v any) error {
	if key == d.failKey {
		return errBoom
	}
	return d.Documents.Put(ctx, key, v)
}

// Mock EventPublisher
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
	err    error
	block  chan struct{}
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []domain.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.OrderEvent(nil), p.events...)
}

func line(item domain.MenuItem, qty int) domain.CartLine {
	return domain.CartLine{MenuItem: item, Quantity: qty}
}

func ingredientQty(t *testing.T, store port.Documents, id string) float64 {
	t.Helper()
	levels, err := load[[]domain.Ingredient](context.Background(), store, KeyInventory)
	require.NoError(t, err)
	for _, ing := range levels {
		if ing.ID == id {
			return ing.Quantity
		}
	}
	t.Fatalf("ingredient %s not found", id)
	return 0
}
