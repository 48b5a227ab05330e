package service

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/logging"
	"github.com/rl1809/primo-pizza/internal/metrics"
	"github.com/rl1809/primo-pizza/internal/port"
)

// InventoryService is the ingredient stock ledger. Deduction is not exposed:
// only OrderService.Create consumes stock, once per order.
type InventoryService struct {
	store   port.DocumentStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewInventoryService(store port.DocumentStore, m *metrics.Metrics, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		store:   store,
		metrics: m,
		logger:  logging.OrNop(logger).Named("inventory"),
	}
}

func (s *InventoryService) Levels(ctx context.Context) ([]domain.Ingredient, error) {
	return load[[]domain.Ingredient](ctx, s.store, KeyInventory)
}

// LowStock returns the ingredients below their warning threshold.
func (s *InventoryService) LowStock(ctx context.Context) ([]domain.Ingredient, error) {
	levels, err := s.Levels(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]domain.Ingredient, 0)
	for _, ing := range levels {
		if ing.IsLow() {
			low = append(low, ing)
		}
	}
	s.metrics.SetLowStock(len(low))
	return low, nil
}

func (s *InventoryService) IsAvailable(ctx context.Context, item domain.MenuItem) (bool, error) {
	levels, err := s.Levels(ctx)
	if err != nil {
		return false, err
	}
	return isAvailable(item, stockIndex(levels)), nil
}

// AdjustStock sets an ingredient's quantity to an absolute value.
func (s *InventoryService) AdjustStock(ctx context.Context, ingredientID string, quantity float64) (domain.Ingredient, error) {
	if quantity < 0 || math.IsNaN(quantity) {
		return domain.Ingredient{}, ErrNegativeQuantity
	}

	var updated domain.Ingredient
	err := s.store.Atomic(ctx, []string{KeyInventory}, func(ctx context.Context, tx port.Documents) error {
		levels, err := load[[]domain.Ingredient](ctx, tx, KeyInventory)
		if err != nil {
			return err
		}

		for i := range levels {
			if levels[i].ID == ingredientID {
				levels[i].Quantity = quantity
				updated = levels[i]
				return save(ctx, tx, KeyInventory, levels)
			}
		}
		return fmt.Errorf("%w: %s", ErrIngredientNotFound, ingredientID)
	})
	if err != nil {
		return domain.Ingredient{}, err
	}

	s.metrics.StockAdjusted()
	s.logger.Info("stock adjusted",
		zap.String("ingredient_id", ingredientID),
		zap.Float64("quantity", quantity),
	)
	return updated, nil
}

func stockIndex(levels []domain.Ingredient) map[string]float64 {
	idx := make(map[string]float64, len(levels))
	for _, ing := range levels {
		idx[ing.ID] = ing.Quantity
	}
	return idx
}

// isAvailable is true when every recipe ingredient is stocked at or above the
// per-unit requirement. An ingredient missing from stock makes the item
// unavailable.
func isAvailable(item domain.MenuItem, stock map[string]float64) bool {
	for id, need := range item.Recipe {
		have, ok := stock[id]
		if !ok || have < need {
			return false
		}
	}
	return true
}

// deduct consumes the recipe quantities of lines from levels in place.
// Ingredients not present in levels are skipped; stock floors at zero.
func deduct(levels []domain.Ingredient, lines []domain.CartLine) {
	pos := make(map[string]int, len(levels))
	for i, ing := range levels {
		pos[ing.ID] = i
	}

	for _, line := range lines {
		for id, perUnit := range line.Recipe {
			i, ok := pos[id]
			if !ok {
				continue
			}
			levels[i].Quantity = math.Max(0, levels[i].Quantity-perUnit*float64(line.Quantity))
		}
	}
}
