package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/port"
)

type MenuSort string

const (
	SortDefault   MenuSort = ""
	SortPriceAsc  MenuSort = "price-asc"
	SortPriceDesc MenuSort = "price-desc"
)

// MenuQuery filters the menu the way the storefront does. Category "favorites"
// selects the IDs in Favorites.
type MenuQuery struct {
	Category  string
	Term      string
	Sort      MenuSort
	Favorites []string
}

const CategoryFavorites = "favorites"

type AvailableItem struct {
	domain.MenuItem
	Available bool `json:"available"`
}

type MenuService struct {
	store port.DocumentStore
}

func NewMenuService(store port.DocumentStore) *MenuService {
	return &MenuService{store: store}
}

func (s *MenuService) List(ctx context.Context) ([]domain.MenuItem, error) {
	return load[[]domain.MenuItem](ctx, s.store, KeyMenu)
}

func (s *MenuService) Get(ctx context.Context, id string) (domain.MenuItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return domain.MenuItem{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.MenuItem{}, fmt.Errorf("%w: %s", ErrMenuItemNotFound, id)
}

func (s *MenuService) Popular(ctx context.Context) ([]domain.MenuItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	popular := make([]domain.MenuItem, 0)
	for _, item := range items {
		if item.IsPopular {
			popular = append(popular, item)
		}
	}
	return popular, nil
}

func (s *MenuService) ByCategory(ctx context.Context, c domain.Category) ([]domain.MenuItem, error) {
	return s.Search(ctx, MenuQuery{Category: string(c)})
}

// Search matches Term case-insensitively against name, description and the
// names of recipe ingredients.
func (s *MenuService) Search(ctx context.Context, q MenuQuery) ([]domain.MenuItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var names map[string]string
	term := strings.ToLower(strings.TrimSpace(q.Term))
	if term != "" {
		levels, err := load[[]domain.Ingredient](ctx, s.store, KeyInventory)
		if err != nil {
			return nil, err
		}
		names = make(map[string]string, len(levels))
		for _, ing := range levels {
			names[ing.ID] = strings.ToLower(ing.Name)
		}
	}

	favorites := make(map[string]bool, len(q.Favorites))
	for _, id := range q.Favorites {
		favorites[id] = true
	}

	out := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		switch {
		case q.Category == "" || q.Category == "all":
		case q.Category == CategoryFavorites:
			if !favorites[item.ID] {
				continue
			}
		case string(item.Category) != q.Category:
			continue
		}
		if term != "" && !matchesTerm(item, term, names) {
			continue
		}
		out = append(out, item)
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out, nil
}

func matchesTerm(item domain.MenuItem, term string, ingredientNames map[string]string) bool {
	if strings.Contains(strings.ToLower(item.Name), term) ||
		strings.Contains(strings.ToLower(item.Description), term) {
		return true
	}
	for id := range item.Recipe {
		if name, ok := ingredientNames[id]; ok && strings.Contains(name, term) {
			return true
		}
	}
	return false
}

// Available joins the menu with current stock.
func (s *MenuService) Available(ctx context.Context) ([]AvailableItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	levels, err := load[[]domain.Ingredient](ctx, s.store, KeyInventory)
	if err != nil {
		return nil, err
	}

	stock := stockIndex(levels)
	out := make([]AvailableItem, len(items))
	for i, item := range items {
		out[i] = AvailableItem{MenuItem: item, Available: isAvailable(item, stock)}
	}
	return out, nil
}
