package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/core/pricing"
	"github.com/rl1809/primo-pizza/internal/logging"
	"github.com/rl1809/primo-pizza/internal/metrics"
	"github.com/rl1809/primo-pizza/internal/port"
)

const (
	maxIDAttempts  = 10
	recentOrderCap = 20
)

type OrderOptions struct {
	// StrictTransitions rejects status changes outside the forward table.
	StrictTransitions bool
	NormalizePhones   bool
	IdempotencyTTL    time.Duration
}

// CreateOrderRequest carries everything checkout has already validated.
// RequestID, when set, makes the call idempotent.
type CreateOrderRequest struct {
	RequestID string
	Customer  domain.Customer
	Lines     []domain.CartLine
	Quote     pricing.Quote
	Zone      domain.DeliveryZone
}

type DashboardStats struct {
	Revenue      float64   `json:"revenue"`
	PendingCount int       `json:"pendingCount"`
	OrderCount   int       `json:"orderCount"`
	RecentTotals []float64 `json:"recentTotals"` // oldest first
}

type OrderService struct {
	store   port.DocumentStore
	guard   port.IdempotencyGuard
	events  *EventDispatcher
	metrics *metrics.Metrics
	logger  *zap.Logger
	opts    OrderOptions
	key     PhoneKeyer
	now     func() time.Time
	newID   func(time.Time) string
}

// NewOrderService wires the order log. guard and events may be nil.
func NewOrderService(store port.DocumentStore, guard port.IdempotencyGuard, events *EventDispatcher, m *metrics.Metrics, logger *zap.Logger, opts OrderOptions) *OrderService {
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = 24 * time.Hour
	}
	return &OrderService{
		store:   store,
		guard:   guard,
		events:  events,
		metrics: m,
		logger:  logging.OrNop(logger).Named("orders"),
		opts:    opts,
		key:     phoneKeyer(opts.NormalizePhones),
		now:     time.Now,
		newID:   orderID,
	}
}

// Create persists a new order, deducts its ingredients and accrues
// floor(total) loyalty points to the customer, all in one store transaction.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	if len(req.Lines) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	if req.RequestID != "" && s.guard != nil {
		idempotencyKey := "order:" + req.RequestID
		ok, err := s.guard.Claim(ctx, idempotencyKey, s.opts.IdempotencyTTL)
		if err != nil {
			return domain.Order{}, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return domain.Order{}, ErrDuplicateRequest
		}

		order, err := s.create(ctx, req)
		if err != nil {
			if relErr := s.guard.Release(ctx, idempotencyKey); relErr != nil {
				s.logger.Error("failed to release idempotency key",
					zap.String("request_id", req.RequestID),
					zap.Error(relErr),
				)
			}
			return domain.Order{}, err
		}
		return order, nil
	}

	return s.create(ctx, req)
}

func (s *OrderService) create(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	now := s.now()
	order := domain.Order{
		Customer:        req.Customer,
		Items:           append([]domain.CartLine(nil), req.Lines...),
		Total:           req.Quote.Total,
		DiscountApplied: req.Quote.Discount,
		DeliveryFee:     req.Quote.DeliveryFee,
		DeliveryZone:    req.Zone.Name,
		Status:          domain.OrderStatusPending,
		Timestamp:       now.UTC(),
		PaymentMethod:   domain.PaymentCash,
	}
	points := pricing.Points(order.Total)
	phoneKey := s.key(req.Customer.Phone)

	err := s.store.Atomic(ctx, []string{KeyOrders, KeyInventory, KeyLoyalty}, func(ctx context.Context, tx port.Documents) error {
		orders, err := load[[]domain.Order](ctx, tx, KeyOrders)
		if err != nil {
			return err
		}
		if order.ID, err = s.uniqueOrderID(orders, now); err != nil {
			return err
		}

		levels, err := load[[]domain.Ingredient](ctx, tx, KeyInventory)
		if err != nil {
			return err
		}
		deduct(levels, order.Items)

		accounts, err := load[[]domain.LoyaltyAccount](ctx, tx, KeyLoyalty)
		if err != nil {
			return err
		}
		if phoneKey != "" {
			accounts, _ = accrue(accounts, phoneKey, points)
		}

		if err := save(ctx, tx, KeyOrders, append([]domain.Order{order}, orders...)); err != nil {
			return err
		}
		if err := save(ctx, tx, KeyInventory, levels); err != nil {
			return err
		}
		return save(ctx, tx, KeyLoyalty, accounts)
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.metrics.OrderPlaced(order.Total)
	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Float64("total", order.Total),
		zap.Int("points", points),
		zap.String("zone", order.DeliveryZone),
	)
	s.emit(domain.EventOrderPlaced, order)
	return order, nil
}

func (s *OrderService) uniqueOrderID(orders []domain.Order, now time.Time) (string, error) {
	for range maxIDAttempts {
		id := s.newID(now)
		if indexOfOrder(orders, id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique order id after %d attempts", maxIDAttempts)
}

// UpdateStatus sets an order's status. With strict transitions only the
// forward moves of the status table are allowed.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var updated domain.Order
	var from domain.OrderStatus
	err := s.mutate(ctx, id, func(o *domain.Order) error {
		if s.opts.StrictTransitions && !o.Status.CanTransition(status) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, status)
		}
		from = o.Status
		o.Status = status
		updated = *o
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.metrics.StatusChanged(string(status))
	s.logger.Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
	)
	s.emit(domain.EventOrderStatusChanged, updated)
	return updated, nil
}

// UpdateCustomer corrects the contact snapshot. Inventory and loyalty are
// not touched.
func (s *OrderService) UpdateCustomer(ctx context.Context, id string, customer domain.Customer) (domain.Order, error) {
	var updated domain.Order
	err := s.mutate(ctx, id, func(o *domain.Order) error {
		o.Customer = customer
		updated = *o
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.logger.Info("order customer updated", zap.String("order_id", id))
	return updated, nil
}

func (s *OrderService) mutate(ctx context.Context, id string, fn func(*domain.Order) error) error {
	return s.store.Atomic(ctx, []string{KeyOrders}, func(ctx context.Context, tx port.Documents) error {
		orders, err := load[[]domain.Order](ctx, tx, KeyOrders)
		if err != nil {
			return err
		}
		i := indexOfOrder(orders, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
		}
		if err := fn(&orders[i]); err != nil {
			return err
		}
		return save(ctx, tx, KeyOrders, orders)
	})
}

// List returns every order, newest first.
func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := load[[]domain.Order](ctx, s.store, KeyOrders)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	orders, err := s.List(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	if i := indexOfOrder(orders, id); i >= 0 {
		return orders[i], nil
	}
	return domain.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}

// Search returns orders whose id or customer phone contains query. An empty
// query matches everything.
func (s *OrderService) Search(ctx context.Context, query string) ([]domain.Order, error) {
	orders, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(o.Customer.Phone, query) || strings.Contains(o.ID, query) {
			out = append(out, o)
		}
	}
	return out, nil
}

// ForCustomer returns the orders placed under phone, newest first.
func (s *OrderService) ForCustomer(ctx context.Context, phone string) ([]domain.Order, error) {
	key := s.key(phone)
	if key == "" {
		return nil, fmt.Errorf("%w: phone", ErrMissingField)
	}

	orders, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0)
	for _, o := range orders {
		if s.key(o.Customer.Phone) == key {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *OrderService) Stats(ctx context.Context) (DashboardStats, error) {
	orders, err := s.List(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{OrderCount: len(orders)}
	for _, o := range orders {
		stats.Revenue += o.Total
		if o.Status == domain.OrderStatusPending {
			stats.PendingCount++
		}
	}

	recent := orders[:min(recentOrderCap, len(orders))]
	stats.RecentTotals = make([]float64, len(recent))
	for i, o := range recent {
		stats.RecentTotals[len(recent)-1-i] = o.Total
	}
	return stats, nil
}

func (s *OrderService) emit(t domain.EventType, o domain.Order) {
	if s.events == nil {
		return
	}
	s.events.Dispatch(domain.OrderEvent{
		Type:       t,
		OrderID:    o.ID,
		Status:     o.Status,
		Total:      o.Total,
		Phone:      o.Customer.Phone,
		Zone:       o.DeliveryZone,
		OccurredAt: s.now().UTC(),
	})
}

func indexOfOrder(orders []domain.Order, id string) int {
	for i, o := range orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
