package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/primo-pizza/internal/core/domain"
)

func ids(items []domain.MenuItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestMenuService_Get(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{})
	ctx := context.Background()

	item, err := svc.Menu.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Classic Pepperoni", item.Name)

	_, err = svc.Menu.Get(ctx, "nope")
	assert.True(t, errors.Is(err, ErrMenuItemNotFound))
}

func TestMenuService_Search(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{})
	ctx := context.Background()

	truffle, err := svc.Menu.Search(ctx, MenuQuery{Term: "TRUFFLE OIL"})
	require.NoError(t, err)
	assert.NotEmpty(t, truffle, "matches by ingredient name")
	for _, item := range truffle {
		assert.Contains(t, item.Recipe, "truffle")
	}

	veggie, err := svc.Menu.ByCategory(ctx, domain.CategoryVeggie)
	require.NoError(t, err)
	require.NotEmpty(t, veggie)
	for _, item := range veggie {
		assert.Equal(t, domain.CategoryVeggie, item.Category)
	}

	favs, err := svc.Menu.Search(ctx, MenuQuery{Category: CategoryFavorites, Favorites: []string{"2", "1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(favs))

	sorted, err := svc.Menu.Search(ctx, MenuQuery{Sort: SortPriceAsc})
	require.NoError(t, err)
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].Price, sorted[i].Price)
	}
}

func TestMenuService_Popular(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{})

	popular, err := svc.Menu.Popular(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, popular)
	for _, item := range popular {
		assert.True(t, item.IsPopular)
	}
}

func TestMenuService_Available(t *testing.T) {
	svc, _ := newTestServices(t, OrderOptions{})
	ctx := context.Background()

	_, err := svc.Inventory.AdjustStock(ctx, "dough", 0)
	require.NoError(t, err)

	items, err := svc.Menu.Available(ctx)
	require.NoError(t, err)
	for _, item := range items {
		if _, needsDough := item.Recipe["dough"]; needsDough {
			assert.False(t, item.Available, item.Name)
		}
	}
}
