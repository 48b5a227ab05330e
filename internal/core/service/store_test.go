package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/primo-pizza/internal/adapter/storage"
	"github.com/rl1809/primo-pizza/internal/core/domain"
)

func TestBootstrap_SeedsOnlyMissingKeys(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	custom := []domain.DeliveryZone{{ID: "only", Name: "Only Zone", Fee: 1}}
	require.NoError(t, store.Put(ctx, KeyDeliveryZones, custom))

	require.NoError(t, Bootstrap(ctx, store, time.Now()))
	require.NoError(t, Bootstrap(ctx, store, time.Now()))

	zones, err := load[[]domain.DeliveryZone](ctx, store, KeyDeliveryZones)
	require.NoError(t, err)
	assert.Equal(t, custom, zones)

	menu, err := load[[]domain.MenuItem](ctx, store, KeyMenu)
	require.NoError(t, err)
	assert.Len(t, menu, 23)

	orders, err := load[[]domain.Order](ctx, store, KeyOrders)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
