package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/primo-pizza/internal/core/domain"
)

func TestLoyaltyService_AccrueUnseenPhone(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{})
	ctx := context.Background()

	balance, err := svc.Loyalty.Accrue(ctx, "5550001", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, balance)

	balance, err = svc.Loyalty.Accrue(ctx, "5550001", 25)
	require.NoError(t, err)
	assert.Equal(t, 35, balance)

	got, err := svc.Loyalty.Balance(ctx, "5550001")
	require.NoError(t, err)
	assert.Equal(t, 35, got)
}

func TestLoyaltyService_Redeem(t *testing.T) {
	tests := []struct {
		name        string
		balance     int
		cost        int
		wantErr     error
		wantBalance int
	}{
		{"insufficient", 80, 100, ErrInsufficientPoints, 80},
		{"sufficient", 150, 100, nil, 50},
		{"exact", 100, 100, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestServices(t, OrderOptions{})
			ctx := context.Background()

			_, err := svc.Loyalty.Accrue(ctx, "555", tt.balance)
			require.NoError(t, err)

			_, err = svc.Loyalty.Redeem(ctx, "555", tt.cost)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}

			got, err := svc.Loyalty.Balance(ctx, "555")
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, got)
		})
	}
}

func TestLoyaltyService_RedeemUnseenPhone(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{})
	ctx := context.Background()

	_, err := svc.Loyalty.Redeem(ctx, "999", 50)
	assert.True(t, errors.Is(err, ErrInsufficientPoints))

	got, err := svc.Loyalty.Balance(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestLoyaltyService_NormalizedPhones(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{NormalizePhones: true})
	ctx := context.Background()

	_, err := svc.Loyalty.Accrue(ctx, "+1 (555) 010-2030", 40)
	require.NoError(t, err)

	got, err := svc.Loyalty.Balance(ctx, "+15550102030")
	require.NoError(t, err)
	assert.Equal(t, 40, got)
}

func TestLoyaltyService_RawPhones(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{NormalizePhones: false})
	ctx := context.Background()

	_, err := svc.Loyalty.Accrue(ctx, "555-0102", 40)
	require.NoError(t, err)

	got, err := svc.Loyalty.Balance(ctx, "5550102")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestLoyaltyService_RedeemReward(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{})
	ctx := context.Background()

	_, err := svc.Loyalty.Accrue(ctx, "555", 120)
	require.NoError(t, err)

	promo, err := svc.Loyalty.RedeemReward(ctx, "555", 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(promo.Code, "REWARD-"))
	assert.Len(t, promo.Code, len("REWARD-")+6)
	assert.Equal(t, domain.DiscountFixed, promo.Type)
	assert.Equal(t, 10.0, promo.Value)

	balance, err := svc.Loyalty.Balance(ctx, "555")
	require.NoError(t, err)
	assert.Equal(t, 20, balance)

	found, err := svc.Promotions.Lookup(ctx, promo.Code)
	require.NoError(t, err)
	assert.Equal(t, promo.ID, found.ID)
}

func TestLoyaltyService_RedeemRewardInsufficient(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{})
	ctx := context.Background()

	_, err := svc.Loyalty.Accrue(ctx, "555", 60)
	require.NoError(t, err)

	before, err := svc.Promotions.List(ctx)
	require.NoError(t, err)

	_, err = svc.Loyalty.RedeemReward(ctx, "555", 2)
	assert.True(t, errors.Is(err, ErrInsufficientPoints))

	after, err := svc.Promotions.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before), "no promotion minted")

	_, err = svc.Loyalty.RedeemReward(ctx, "555", 7)
	assert.True(t, errors.Is(err, ErrUnknownReward))
}

func TestLoyaltyService_RedeemRewardRollsBack(t *testing.T) {
	store := &failingStore{MemoryStore: newSeededStore(t), failKey: KeyPromotions}
	svc := New(Deps{Store: store})
	ctx := context.Background()

	_, err := svc.Loyalty.Accrue(ctx, "555", 100)
	require.NoError(t, err)

	_, err = svc.Loyalty.RedeemReward(ctx, "555", 0)
	assert.True(t, errors.Is(err, errBoom))

	balance, err := svc.Loyalty.Balance(ctx, "555")
	require.NoError(t, err)
	assert.Equal(t, 100, balance, "points are not spent when the promotion write fails")
}

func TestFavoritesService_Toggle(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{NormalizePhones: true})
	ctx := context.Background()

	favs, err := svc.Favorites.Get(ctx, "555")
	require.NoError(t, err)
	assert.Empty(t, favs)

	favs, err = svc.Favorites.Toggle(ctx, "555", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, favs)

	favs, err = svc.Favorites.Toggle(ctx, "5-5-5", "4")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, favs)

	favs, err = svc.Favorites.Toggle(ctx, "555", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, favs)

	other, err := svc.Favorites.Get(ctx, "777")
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = svc.Favorites.Toggle(ctx, "", "1")
	assert.True(t, errors.Is(err, ErrMissingField))
}
