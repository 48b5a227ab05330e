package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/logging"
	"github.com/rl1809/primo-pizza/internal/port"
)

type ZoneService struct {
	store  port.DocumentStore
	logger *zap.Logger
}

func NewZoneService(store port.DocumentStore, logger *zap.Logger) *ZoneService {
	return &ZoneService{store: store, logger: logging.OrNop(logger).Named("zones")}
}

func (s *ZoneService) List(ctx context.Context) ([]domain.DeliveryZone, error) {
	return load[[]domain.DeliveryZone](ctx, s.store, KeyDeliveryZones)
}

func (s *ZoneService) Get(ctx context.Context, id string) (domain.DeliveryZone, error) {
	zones, err := s.List(ctx)
	if err != nil {
		return domain.DeliveryZone{}, err
	}
	for _, z := range zones {
		if z.ID == id {
			return z, nil
		}
	}
	return domain.DeliveryZone{}, fmt.Errorf("%w: %s", ErrZoneNotFound, id)
}

// Save updates the zone with z.ID, or appends z under a fresh id when z.ID is
// empty or unknown.
func (s *ZoneService) Save(ctx context.Context, z domain.DeliveryZone) (domain.DeliveryZone, error) {
	z.Name = strings.TrimSpace(z.Name)
	if z.Name == "" {
		return domain.DeliveryZone{}, fmt.Errorf("%w: name", ErrInvalidZone)
	}
	if z.Fee < 0 {
		return domain.DeliveryZone{}, fmt.Errorf("%w: fee %v is negative", ErrInvalidZone, z.Fee)
	}

	err := s.store.Atomic(ctx, []string{KeyDeliveryZones}, func(ctx context.Context, tx port.Documents) error {
		zones, err := load[[]domain.DeliveryZone](ctx, tx, KeyDeliveryZones)
		if err != nil {
			return err
		}
		if z.ID != "" {
			for i := range zones {
				if zones[i].ID == z.ID {
					zones[i] = z
					return save(ctx, tx, KeyDeliveryZones, zones)
				}
			}
		} else {
			z.ID = uuid.NewString()
		}
		return save(ctx, tx, KeyDeliveryZones, append(zones, z))
	})
	if err != nil {
		return domain.DeliveryZone{}, err
	}

	s.logger.Info("zone saved", zap.String("zone_id", z.ID), zap.Float64("fee", z.Fee))
	return z, nil
}

func (s *ZoneService) Delete(ctx context.Context, id string) error {
	return s.store.Atomic(ctx, []string{KeyDeliveryZones}, func(ctx context.Context, tx port.Documents) error {
		zones, err := load[[]domain.DeliveryZone](ctx, tx, KeyDeliveryZones)
		if err != nil {
			return err
		}
		for i, z := range zones {
			if z.ID == id {
				return save(ctx, tx, KeyDeliveryZones, append(zones[:i], zones[i+1:]...))
			}
		}
		return fmt.Errorf("%w: %s", ErrZoneNotFound, id)
	})
}
