// Package session holds per-customer cart state and orchestrates checkout,
// login and rewards against the core services.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/core/pricing"
	"github.com/rl1809/primo-pizza/internal/core/service"
	"github.com/rl1809/primo-pizza/internal/logging"
)

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrNoCodeRequested = errors.New("no verification code requested")
)

const minPhoneLength = 3

// CheckoutForm is the customer-entered delivery details. RequestID is an
// optional client token that makes a resubmitted checkout a no-op.
type CheckoutForm struct {
	RequestID string `json:"requestId,omitempty"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	ZoneID    string `json:"zoneId"`
}

type Session struct {
	svc    *service.Services
	logger *zap.Logger

	mu          sync.Mutex
	cart        []domain.CartLine
	promo       *domain.Promotion
	phone       string
	pendingCode string
	pendingFor  string
}

func New(svc *service.Services, logger *zap.Logger) *Session {
	return &Session{svc: svc, logger: logging.OrNop(logger).Named("session")}
}

// Add puts one unit of item in the cart, refusing items that cannot be made
// from current stock.
func (s *Session) Add(ctx context.Context, item domain.MenuItem) error {
	ok, err := s.svc.Inventory.IsAvailable(ctx, item)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", service.ErrOutOfStock, item.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(item, 1)
	return nil
}

// AddByID adds the current menu entry for id.
func (s *Session) AddByID(ctx context.Context, id string) (domain.MenuItem, error) {
	item, err := s.svc.Menu.Get(ctx, id)
	if err != nil {
		return domain.MenuItem{}, err
	}
	return item, s.Add(ctx, item)
}

func (s *Session) addLocked(item domain.MenuItem, qty int) {
	for i := range s.cart {
		if s.cart[i].ID == item.ID {
			s.cart[i].Quantity += qty
			return
		}
	}
	s.cart = append(s.cart, domain.CartLine{MenuItem: item, Quantity: qty})
}

func (s *Session) Remove(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.cart[:0]
	for _, l := range s.cart {
		if l.ID != itemID {
			kept = append(kept, l)
		}
	}
	s.cart = kept
}

// UpdateQuantity changes a line's quantity by delta; it never drops below one.
func (s *Session) UpdateQuantity(itemID string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].ID == itemID {
			s.cart[i].Quantity = max(1, s.cart[i].Quantity+delta)
			return
		}
	}
}

// Clear empties the cart and drops the active promotion.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Session) clearLocked() {
	s.cart = nil
	s.promo = nil
}

func (s *Session) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLine{}, s.cart...)
}

// ApplyPromotion replaces the active promotion with the one for code. On
// failure the cart is left as it was.
func (s *Session) ApplyPromotion(ctx context.Context, code string) (domain.Promotion, error) {
	promo, err := s.svc.Promotions.Lookup(ctx, code)
	if err != nil {
		return domain.Promotion{}, err
	}

	s.mu.Lock()
	s.promo = &promo
	s.mu.Unlock()
	return promo, nil
}

func (s *Session) RemovePromotion() {
	s.mu.Lock()
	s.promo = nil
	s.mu.Unlock()
}

func (s *Session) ActivePromotion() (domain.Promotion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.promo == nil {
		return domain.Promotion{}, false
	}
	return *s.promo, true
}

// Quote prices the cart for a delivery zone. An empty zoneID quotes without
// a delivery fee.
func (s *Session) Quote(ctx context.Context, zoneID string) (pricing.Quote, error) {
	var fee float64
	if zoneID != "" {
		zone, err := s.svc.Zones.Get(ctx, zoneID)
		if err != nil {
			return pricing.Quote{}, err
		}
		fee = zone.Fee
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Compute(s.cart, s.promo, fee), nil
}

// Checkout validates the form, places the order and clears the cart.
func (s *Session) Checkout(ctx context.Context, form CheckoutForm) (domain.Order, error) {
	if err := form.validate(); err != nil {
		return domain.Order{}, err
	}
	if _, err := s.checkPhone(form.Phone); err != nil {
		return domain.Order{}, err
	}

	zone, err := s.svc.Zones.Get(ctx, form.ZoneID)
	if err != nil {
		return domain.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		return domain.Order{}, service.ErrEmptyCart
	}
	for _, l := range s.cart {
		ok, err := s.svc.Inventory.IsAvailable(ctx, l.MenuItem)
		if err != nil {
			return domain.Order{}, err
		}
		if !ok {
			return domain.Order{}, fmt.Errorf("%w: %s", service.ErrOutOfStock, l.Name)
		}
	}

	order, err := s.svc.Orders.Create(ctx, service.CreateOrderRequest{
		RequestID: form.RequestID,
		Customer: domain.Customer{
			Name:    strings.TrimSpace(form.Name),
			Phone:   strings.TrimSpace(form.Phone),
			Address: strings.TrimSpace(form.Address),
		},
		Lines: s.cart,
		Quote: pricing.Compute(s.cart, s.promo, zone.Fee),
		Zone:  zone,
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.clearLocked()
	return order, nil
}

func (f CheckoutForm) validate() error {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"name", f.Name},
		{"phone", f.Phone},
		{"address", f.Address},
		{"zoneId", f.ZoneID},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", service.ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// Login identifies the customer by phone. There is no credential check.
func (s *Session) Login(phone string) error {
	phone, err := s.checkPhone(phone)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.phone = phone
	s.mu.Unlock()
	return nil
}

// checkPhone trims phone and rejects it when it is too short or has no
// account key, so distinct customers never share an empty key.
func (s *Session) checkPhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if len(phone) < minPhoneLength || s.svc.Loyalty.Key(phone) == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return phone, nil
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.phone = ""
	s.pendingCode, s.pendingFor = "", ""
	s.mu.Unlock()
}

func (s *Session) Phone() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phone, s.phone != ""
}

// RequestCode issues a six digit code for phone. Delivery is simulated: the
// code is logged and returned to the caller.
func (s *Session) RequestCode(phone string) (string, error) {
	phone, err := s.checkPhone(phone)
	if err != nil {
		return "", err
	}

	code, err := verificationCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.pendingCode, s.pendingFor = code, phone
	s.mu.Unlock()

	s.logger.Info("verification code issued", zap.String("phone", phone), zap.String("code", code))
	return code, nil
}

// VerifyCode logs in the phone the code was issued for.
func (s *Session) VerifyCode(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingCode == "" {
		return ErrNoCodeRequested
	}
	if strings.TrimSpace(code) != s.pendingCode {
		return ErrInvalidCode
	}
	s.phone = s.pendingFor
	s.pendingCode, s.pendingFor = "", ""
	return nil
}

func verificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%d", 100000+n.Int64()), nil
}

func (s *Session) requirePhone() (string, error) {
	phone, ok := s.Phone()
	if !ok {
		return "", ErrNotLoggedIn
	}
	return phone, nil
}

func (s *Session) Points(ctx context.Context) (int, error) {
	phone, err := s.requirePhone()
	if err != nil {
		return 0, err
	}
	return s.svc.Loyalty.Balance(ctx, phone)
}

func (s *Session) Favorites(ctx context.Context) ([]string, error) {
	phone, err := s.requirePhone()
	if err != nil {
		return nil, err
	}
	return s.svc.Favorites.Get(ctx, phone)
}

func (s *Session) ToggleFavorite(ctx context.Context, itemID string) ([]string, error) {
	phone, err := s.requirePhone()
	if err != nil {
		return nil, err
	}
	return s.svc.Favorites.Toggle(ctx, phone, itemID)
}

// Orders lists the logged-in customer's orders, newest first.
func (s *Session) Orders(ctx context.Context) ([]domain.Order, error) {
	phone, err := s.requirePhone()
	if err != nil {
		return nil, err
	}
	return s.svc.Orders.ForCustomer(ctx, phone)
}

// Reorder adds the items of a past order back to the cart with their
// original quantities. Items that cannot be made right now are skipped and
// returned by name.
func (s *Session) Reorder(ctx context.Context, order domain.Order) ([]string, error) {
	skipped := make([]string, 0)
	for _, l := range order.Items {
		ok, err := s.svc.Inventory.IsAvailable(ctx, l.MenuItem)
		if err != nil {
			return nil, err
		}
		if !ok {
			skipped = append(skipped, l.Name)
			continue
		}
		s.mu.Lock()
		s.addLocked(l.MenuItem, max(1, l.Quantity))
		s.mu.Unlock()
	}
	return skipped, nil
}

// ReorderByID reorders one of the logged-in customer's own orders.
func (s *Session) ReorderByID(ctx context.Context, orderID string) ([]string, error) {
	orders, err := s.Orders(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == orderID {
			return s.Reorder(ctx, o)
		}
	}
	return nil, fmt.Errorf("%w: %s", service.ErrOrderNotFound, orderID)
}

// RedeemReward spends the logged-in customer's points on a reward tier and
// returns the minted promotion. The code is not applied to the cart.
func (s *Session) RedeemReward(ctx context.Context, tier int) (domain.Promotion, error) {
	phone, err := s.requirePhone()
	if err != nil {
		return domain.Promotion{}, err
	}

	return s.svc.Loyalty.RedeemReward(ctx, phone, tier)
}
