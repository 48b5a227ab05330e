package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/logging"
	"github.com/rl1809/primo-pizza/internal/metrics"
	"github.com/rl1809/primo-pizza/internal/port"
)

type PromotionService struct {
	store   port.DocumentStore
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewPromotionService(store port.DocumentStore, m *metrics.Metrics, logger *zap.Logger) *PromotionService {
	return &PromotionService{
		store:   store,
		metrics: m,
		logger:  logging.OrNop(logger).Named("promotions"),
		now:     time.Now,
	}
}

func (s *PromotionService) List(ctx context.Context) ([]domain.Promotion, error) {
	return load[[]domain.Promotion](ctx, s.store, KeyPromotions)
}

// Lookup finds the active promotion whose code matches exactly. The flash
// sale code is accepted while the sale is effective-active.
func (s *PromotionService) Lookup(ctx context.Context, code string) (domain.Promotion, error) {
	if code == "" {
		return domain.Promotion{}, ErrEmptyCode
	}

	promos, err := s.List(ctx)
	if err != nil {
		return domain.Promotion{}, err
	}
	for _, p := range promos {
		if p.Active && p.Code == code {
			s.metrics.PromotionLookup("hit")
			return p, nil
		}
	}

	sale, err := load[domain.FlashSale](ctx, s.store, KeyFlashSale)
	if err != nil {
		return domain.Promotion{}, err
	}
	if sale.DiscountCode == code && sale.EffectiveActive(s.now()) {
		s.metrics.PromotionLookup("flash_sale")
		return sale.Promotion(), nil
	}

	s.metrics.PromotionLookup("miss")
	return domain.Promotion{}, fmt.Errorf("%w: %s", ErrPromotionNotFound, code)
}

// Create stores p under a fresh id. Codes are unique among stored promotions.
func (s *PromotionService) Create(ctx context.Context, p domain.Promotion) (domain.Promotion, error) {
	p.Code = strings.TrimSpace(p.Code)
	if err := validatePromotion(p); err != nil {
		return domain.Promotion{}, err
	}
	p.ID = uuid.NewString()

	err := s.store.Atomic(ctx, []string{KeyPromotions}, func(ctx context.Context, tx port.Documents) error {
		promos, err := load[[]domain.Promotion](ctx, tx, KeyPromotions)
		if err != nil {
			return err
		}
		if _, ok := findPromotionByCode(promos, p.Code); ok {
			return fmt.Errorf("%w: %s", ErrDuplicateCode, p.Code)
		}
		return save(ctx, tx, KeyPromotions, append(promos, p))
	})
	if err != nil {
		return domain.Promotion{}, err
	}

	s.logger.Info("promotion created", zap.String("promotion_id", p.ID), zap.String("code", p.Code))
	return p, nil
}

func (s *PromotionService) Delete(ctx context.Context, id string) error {
	err := s.store.Atomic(ctx, []string{KeyPromotions}, func(ctx context.Context, tx port.Documents) error {
		promos, err := load[[]domain.Promotion](ctx, tx, KeyPromotions)
		if err != nil {
			return err
		}
		for i, p := range promos {
			if p.ID == id {
				return save(ctx, tx, KeyPromotions, append(promos[:i], promos[i+1:]...))
			}
		}
		return fmt.Errorf("%w: %s", ErrPromotionNotFound, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("promotion deleted", zap.String("promotion_id", id))
	return nil
}

func (s *PromotionService) SetActive(ctx context.Context, id string, active bool) (domain.Promotion, error) {
	var updated domain.Promotion
	err := s.store.Atomic(ctx, []string{KeyPromotions}, func(ctx context.Context, tx port.Documents) error {
		promos, err := load[[]domain.Promotion](ctx, tx, KeyPromotions)
		if err != nil {
			return err
		}
		for i := range promos {
			if promos[i].ID == id {
				promos[i].Active = active
				updated = promos[i]
				return save(ctx, tx, KeyPromotions, promos)
			}
		}
		return fmt.Errorf("%w: %s", ErrPromotionNotFound, id)
	})
	return updated, err
}

func validatePromotion(p domain.Promotion) error {
	if p.Code == "" {
		return ErrEmptyCode
	}
	switch p.Type {
	case domain.DiscountPercent:
		if p.Value <= 0 || p.Value > 100 {
			return fmt.Errorf("%w: percent value %v out of range", ErrInvalidPromotion, p.Value)
		}
	case domain.DiscountFixed:
		if p.Value <= 0 {
			return fmt.Errorf("%w: fixed value %v must be positive", ErrInvalidPromotion, p.Value)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidPromotion, p.Type)
	}
	return nil
}

func findPromotionByCode(promos []domain.Promotion, code string) (domain.Promotion, bool) {
	for _, p := range promos {
		if p.Code == code {
			return p, true
		}
	}
	return domain.Promotion{}, false
}

type FlashSaleService struct {
	store  port.DocumentStore
	logger *zap.Logger
	now    func() time.Time
}

func NewFlashSaleService(store port.DocumentStore, logger *zap.Logger) *FlashSaleService {
	return &FlashSaleService{
		store:  store,
		logger: logging.OrNop(logger).Named("flash_sale"),
		now:    time.Now,
	}
}

func (s *FlashSaleService) Get(ctx context.Context) (domain.FlashSale, error) {
	return load[domain.FlashSale](ctx, s.store, KeyFlashSale)
}

// Current returns the sale and whether it is effective-active right now.
func (s *FlashSaleService) Current(ctx context.Context) (domain.FlashSale, bool, error) {
	sale, err := s.Get(ctx)
	if err != nil {
		return domain.FlashSale{}, false, err
	}
	return sale, sale.EffectiveActive(s.now()), nil
}

// Save overwrites the singleton sale.
func (s *FlashSaleService) Save(ctx context.Context, sale domain.FlashSale) error {
	sale.DiscountCode = strings.TrimSpace(sale.DiscountCode)
	if sale.Active && sale.DiscountCode == "" {
		return ErrEmptyCode
	}
	if sale.DiscountPercent <= 0 || sale.DiscountPercent > 100 {
		return fmt.Errorf("%w: flash sale percent %v out of range", ErrInvalidPromotion, sale.DiscountPercent)
	}

	if err := save(ctx, s.store, KeyFlashSale, sale); err != nil {
		return err
	}
	s.logger.Info("flash sale saved",
		zap.String("code", sale.DiscountCode),
		zap.Time("end_time", sale.EndTime),
		zap.Bool("active", sale.Active),
	)
	return nil
}
