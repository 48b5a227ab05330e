package service

import "errors"

var (
	ErrDuplicateRequest   = errors.New("duplicate request")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMissingField       = errors.New("missing required field")
	ErrOutOfStock         = errors.New("insufficient stock")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrNegativeQuantity   = errors.New("quantity must not be negative")
	ErrEmptyCode          = errors.New("promotion code is empty")
	ErrPromotionNotFound  = errors.New("promotion not found")
	ErrInvalidPromotion   = errors.New("invalid promotion")
	ErrDuplicateCode      = errors.New("promotion code already exists")
	ErrZoneNotFound       = errors.New("delivery zone not found")
	ErrInvalidZone        = errors.New("invalid delivery zone")
	ErrInsufficientPoints = errors.New("insufficient loyalty points")
	ErrUnknownReward      = errors.New("unknown reward tier")
)

// IsNotFound reports whether err is one of the lookup misses.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrPromotionNotFound) ||
		errors.Is(err, ErrZoneNotFound) ||
		errors.Is(err, ErrMenuItemNotFound) ||
		errors.Is(err, ErrIngredientNotFound)
}
