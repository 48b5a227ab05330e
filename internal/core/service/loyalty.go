package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rl1809/primo-pizza/internal/core/catalog"
	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/core/pricing"
	"github.com/rl1809/primo-pizza/internal/logging"
	"github.com/rl1809/primo-pizza/internal/metrics"
	"github.com/rl1809/primo-pizza/internal/port"
)

// PhoneKeyer maps a customer phone to the key loyalty and favorites are
// stored under.
type PhoneKeyer func(phone string) string

func phoneKeyer(normalize bool) PhoneKeyer {
	if normalize {
		return domain.NormalizePhone
	}
	return strings.TrimSpace
}

type LoyaltyService struct {
	store    port.DocumentStore
	key      PhoneKeyer
	metrics  *metrics.Metrics
	logger   *zap.Logger
	maxCodes int
}

func NewLoyaltyService(store port.DocumentStore, normalizePhones bool, m *metrics.Metrics, logger *zap.Logger) *LoyaltyService {
	return &LoyaltyService{
		store:    store,
		key:      phoneKeyer(normalizePhones),
		metrics:  m,
		logger:   logging.OrNop(logger).Named("loyalty"),
		maxCodes: 10,
	}
}

func (s *LoyaltyService) Tiers() []domain.RewardTier {
	return catalog.RewardTiers()
}

// Key returns the account key for phone. An empty key means the phone
// cannot identify a customer.
func (s *LoyaltyService) Key(phone string) string {
	return s.key(phone)
}

// Balance returns the points held by phone; an unseen phone has zero.
func (s *LoyaltyService) Balance(ctx context.Context, phone string) (int, error) {
	if s.key(phone) == "" {
		return 0, nil
	}
	accounts, err := load[[]domain.LoyaltyAccount](ctx, s.store, KeyLoyalty)
	if err != nil {
		return 0, err
	}
	if i := findAccount(accounts, s.key(phone)); i >= 0 {
		return accounts[i].Points, nil
	}
	return 0, nil
}

// Accrue adds points, creating the account at zero first if needed.
func (s *LoyaltyService) Accrue(ctx context.Context, phone string, points int) (int, error) {
	if points < 0 {
		return 0, ErrNegativeQuantity
	}
	key := s.key(phone)
	if key == "" {
		return 0, fmt.Errorf("%w: phone", ErrMissingField)
	}

	var balance int
	err := s.store.Atomic(ctx, []string{KeyLoyalty}, func(ctx context.Context, tx port.Documents) error {
		accounts, err := load[[]domain.LoyaltyAccount](ctx, tx, KeyLoyalty)
		if err != nil {
			return err
		}
		accounts, balance = accrue(accounts, key, points)
		return save(ctx, tx, KeyLoyalty, accounts)
	})
	return balance, err
}

// Redeem subtracts cost when the balance covers it. It fails without
// mutation otherwise.
func (s *LoyaltyService) Redeem(ctx context.Context, phone string, cost int) (int, error) {
	var balance int
	err := s.store.Atomic(ctx, []string{KeyLoyalty}, func(ctx context.Context, tx port.Documents) error {
		accounts, err := load[[]domain.LoyaltyAccount](ctx, tx, KeyLoyalty)
		if err != nil {
			return err
		}
		accounts, balance, err = redeem(accounts, s.key(phone), cost)
		if err != nil {
			return err
		}
		return save(ctx, tx, KeyLoyalty, accounts)
	})
	s.recordRedemption(err)
	return balance, err
}

// RedeemReward spends the points for tier and mints a fixed promotion worth
// the tier value. Both writes commit together.
func (s *LoyaltyService) RedeemReward(ctx context.Context, phone string, tier int) (domain.Promotion, error) {
	tiers := s.Tiers()
	if tier < 0 || tier >= len(tiers) {
		return domain.Promotion{}, fmt.Errorf("%w: %d", ErrUnknownReward, tier)
	}
	reward := tiers[tier]
	key := s.key(phone)

	var promo domain.Promotion
	err := s.store.Atomic(ctx, []string{KeyLoyalty, KeyPromotions}, func(ctx context.Context, tx port.Documents) error {
		accounts, err := load[[]domain.LoyaltyAccount](ctx, tx, KeyLoyalty)
		if err != nil {
			return err
		}
		accounts, _, err = redeem(accounts, key, reward.Cost)
		if err != nil {
			return err
		}

		promos, err := load[[]domain.Promotion](ctx, tx, KeyPromotions)
		if err != nil {
			return err
		}
		code, err := s.uniqueRewardCode(promos)
		if err != nil {
			return err
		}
		promo = domain.Promotion{
			ID:          "reward-" + code,
			Code:        code,
			Type:        domain.DiscountFixed,
			Value:       reward.Value,
			Active:      true,
			Description: "Loyalty Reward: " + pricing.Format(reward.Value) + " Off",
		}

		if err := save(ctx, tx, KeyLoyalty, accounts); err != nil {
			return err
		}
		return save(ctx, tx, KeyPromotions, append(promos, promo))
	})
	s.recordRedemption(err)
	if err != nil {
		return domain.Promotion{}, err
	}

	s.logger.Info("reward redeemed",
		zap.String("phone", key),
		zap.Int("cost", reward.Cost),
		zap.String("code", promo.Code),
	)
	return promo, nil
}

func (s *LoyaltyService) uniqueRewardCode(promos []domain.Promotion) (string, error) {
	for range s.maxCodes {
		code := rewardCode()
		if _, taken := findPromotionByCode(promos, code); !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique reward code after %d attempts", s.maxCodes)
}

func (s *LoyaltyService) recordRedemption(err error) {
	switch {
	case err == nil:
		s.metrics.Redemption("success")
	case errors.Is(err, ErrInsufficientPoints):
		s.metrics.Redemption("insufficient")
	default:
		s.metrics.Redemption("error")
	}
}

func findAccount(accounts []domain.LoyaltyAccount, key string) int {
	for i, a := range accounts {
		if a.Phone == key {
			return i
		}
	}
	return -1
}

func accrue(accounts []domain.LoyaltyAccount, key string, points int) ([]domain.LoyaltyAccount, int) {
	i := findAccount(accounts, key)
	if i < 0 {
		accounts = append(accounts, domain.LoyaltyAccount{Phone: key})
		i = len(accounts) - 1
	}
	accounts[i].Points += points
	return accounts, accounts[i].Points
}

// redeem checks and deducts against the same read of the balance.
func redeem(accounts []domain.LoyaltyAccount, key string, cost int) ([]domain.LoyaltyAccount, int, error) {
	if cost < 0 {
		return accounts, 0, ErrNegativeQuantity
	}
	i := findAccount(accounts, key)
	if i < 0 {
		return accounts, 0, fmt.Errorf("%w: have 0, need %d", ErrInsufficientPoints, cost)
	}
	if accounts[i].Points < cost {
		return accounts, accounts[i].Points, fmt.Errorf("%w: have %d, need %d", ErrInsufficientPoints, accounts[i].Points, cost)
	}
	accounts[i].Points -= cost
	return accounts, accounts[i].Points, nil
}

type FavoritesService struct {
	store port.DocumentStore
	key   PhoneKeyer
}

func NewFavoritesService(store port.DocumentStore, normalizePhones bool) *FavoritesService {
	return &FavoritesService{store: store, key: phoneKeyer(normalizePhones)}
}

func (s *FavoritesService) Get(ctx context.Context, phone string) ([]string, error) {
	favs, err := load[domain.Favorites](ctx, s.store, KeyFavorites)
	if err != nil {
		return nil, err
	}
	ids := favs[s.key(phone)]
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Toggle adds itemID to phone's favorites, or removes it if already present,
// and returns the resulting list.
func (s *FavoritesService) Toggle(ctx context.Context, phone, itemID string) ([]string, error) {
	key := s.key(phone)
	if key == "" || itemID == "" {
		return nil, ErrMissingField
	}

	var result []string
	err := s.store.Atomic(ctx, []string{KeyFavorites}, func(ctx context.Context, tx port.Documents) error {
		favs, err := load[domain.Favorites](ctx, tx, KeyFavorites)
		if err != nil {
			return err
		}
		if favs == nil {
			favs = domain.Favorites{}
		}

		ids := favs[key]
		result = make([]string, 0, len(ids)+1)
		removed := false
		for _, id := range ids {
			if id == itemID {
				removed = true
				continue
			}
			result = append(result, id)
		}
		if !removed {
			result = append(result, itemID)
		}

		favs[key] = result
		return save(ctx, tx, KeyFavorites, favs)
	})
	return result, err
}
