package service

import (
	"go.uber.org/zap"

	"github.com/rl1809/primo-pizza/internal/logging"
	"github.com/rl1809/primo-pizza/internal/metrics"
	"github.com/rl1809/primo-pizza/internal/port"
)

// Services groups the per-entity services that share one store.
type Services struct {
	Menu       *MenuService
	Inventory  *InventoryService
	Promotions *PromotionService
	FlashSales *FlashSaleService
	Zones      *ZoneService
	Loyalty    *LoyaltyService
	Favorites  *FavoritesService
	Orders     *OrderService
}

type Deps struct {
	Store   port.DocumentStore
	Guard   port.IdempotencyGuard
	Events  *EventDispatcher
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	Orders  OrderOptions
}

func New(d Deps) *Services {
	logger := logging.OrNop(d.Logger)
	return &Services{
		Menu:       NewMenuService(d.Store),
		Inventory:  NewInventoryService(d.Store, d.Metrics, logger),
		Promotions: NewPromotionService(d.Store, d.Metrics, logger),
		FlashSales: NewFlashSaleService(d.Store, logger),
		Zones:      NewZoneService(d.Store, logger),
		Loyalty:    NewLoyaltyService(d.Store, d.Orders.NormalizePhones, d.Metrics, logger),
		Favorites:  NewFavoritesService(d.Store, d.Orders.NormalizePhones),
		Orders:     NewOrderService(d.Store, d.Guard, d.Events, d.Metrics, logger, d.Orders),
	}
}
