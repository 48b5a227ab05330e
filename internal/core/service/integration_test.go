package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/primo-pizza/internal/adapter/storage"
	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/port"
)

func newRedisServices(t *testing.T) (*Services, *storage.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := storage.NewRedisStore(client, "primo:")
	require.NoError(t, Bootstrap(context.Background(), store, time.Now()))

	svc := New(Deps{
		Store:  store,
		Guard:  store,
		Orders: OrderOptions{StrictTransitions: true, NormalizePhones: true, IdempotencyTTL: time.Hour},
	})
	return svc, store, mr
}

func TestIntegration_RedisOrderFlow(t *testing.T) {
	svc, store, mr := newRedisServices(t)
	ctx := context.Background()

	for _, key := range []string{KeyOrders, KeyMenu, KeyInventory, KeyLoyalty, KeyDeliveryZones, KeyFlashSale} {
		assert.True(t, mr.Exists("primo:"+key), key)
	}

	req := placeRequest(line(pepperoni, 2))
	req.RequestID = "req-1"
	order, err := svc.Orders.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Orders.Create(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	got, err := svc.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Total, got.Total)
	assert.Equal(t, 97.0, ingredientQty(t, store, "cheese"))

	points, err := svc.Loyalty.Balance(ctx, testCustomer.Phone)
	require.NoError(t, err)
	assert.Equal(t, 37, points)

	_, err = svc.Loyalty.RedeemReward(ctx, testCustomer.Phone, 0)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	_, err = svc.Orders.Create(ctx, placeRequest(line(pepperoni, 1)))
	require.NoError(t, err)
	assert.Equal(t, 95.5, ingredientQty(t, store, "cheese"))

	promo, err := svc.Loyalty.RedeemReward(ctx, testCustomer.Phone, 0)
	require.NoError(t, err)
	found, err := svc.Promotions.Lookup(ctx, promo.Code)
	require.NoError(t, err)
	assert.Equal(t, promo.ID, found.ID)

	points, err = svc.Loyalty.Balance(ctx, testCustomer.Phone)
	require.NoError(t, err)
	assert.Equal(t, 37+21-50, points)

	updated, err := svc.Orders.UpdateStatus(ctx, order.ID, domain.OrderStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInProgress, updated.Status)
}

func TestIntegration_RedisConcurrentOrders(t *testing.T) {
	svc, store, _ := newRedisServices(t)
	ctx := context.Background()

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		placed    int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			req := placeRequest(line(pepperoni, 1))
			req.RequestID = fmt.Sprintf("req-%d", n)
			_, err := svc.Orders.Create(ctx, req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed++
			case errors.Is(err, port.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, workers, placed+conflicts)
	require.Positive(t, placed)

	orders, err := svc.Orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, placed)

	ids := make(map[string]bool, len(orders))
	for _, o := range orders {
		ids[o.ID] = true
	}
	assert.Len(t, ids, placed)

	assert.Equal(t, 100-1.5*float64(placed), ingredientQty(t, store, "cheese"))
	assert.Equal(t, 40-2*float64(placed), ingredientQty(t, store, "pepp"))
}
