package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/primo-pizza/internal/core/domain"
)

func TestZoneService_SaveUpdateDelete(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{})
	ctx := context.Background()

	created, err := svc.Zones.Save(ctx, domain.DeliveryZone{Name: "Airport", Fee: 12.5, EstimatedTime: "90 min"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	zones, err := svc.Zones.List(ctx)
	require.NoError(t, err)
	assert.Len(t, zones, 4)

	created.Fee = 11
	_, err = svc.Zones.Save(ctx, created)
	require.NoError(t, err)

	got, err := svc.Zones.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 11.0, got.Fee)

	require.NoError(t, svc.Zones.Delete(ctx, created.ID))
	_, err = svc.Zones.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, ErrZoneNotFound))
}

func TestZoneService_SaveValidates(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{})
	ctx := context.Background()

	_, err := svc.Zones.Save(ctx, domain.DeliveryZone{Name: "  "})
	assert.True(t, errors.Is(err, ErrInvalidZone))

	_, err = svc.Zones.Save(ctx, domain.DeliveryZone{Name: "X", Fee: -1})
	assert.True(t, errors.Is(err, ErrInvalidZone))
}

func TestZoneService_OrdersKeepZoneSnapshot(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{})
	ctx := context.Background()

	zone, err := svc.Zones.Get(ctx, "z1")
	require.NoError(t, err)

	order, err := svc.Orders.Create(ctx, CreateOrderRequest{
		Customer: domain.Customer{Name: "Ann", Phone: "555", Address: "1 Main"},
		Lines:    []domain.CartLine{line(domain.MenuItem{ID: "n", Price: 10}, 1)},
		Zone:     zone,
	})
	require.NoError(t, err)

	zone.Name = "Renamed"
	_, err = svc.Zones.Save(ctx, zone)
	require.NoError(t, err)

	stored, err := svc.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Downtown (Radius < 5km)", stored.DeliveryZone)
}
