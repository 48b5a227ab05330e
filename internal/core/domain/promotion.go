package domain

import "time"

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

type Promotion struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	Type        DiscountType `json:"type"`
	Value       float64      `json:"value"`
	Active      bool         `json:"active"`
	Description string       `json:"description"`
}

type DeliveryZone struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Fee           float64 `json:"fee"`
	EstimatedTime string  `json:"estimatedTime"`
}

// FlashSale is a singleton, overwritten wholesale by admins.
type FlashSale struct {
	Title           string    `json:"title"`
	EndTime         time.Time `json:"endTime"`
	DiscountCode    string    `json:"discountCode"`
	DiscountPercent float64   `json:"discountPercent"`
	Active          bool      `json:"active"`
}

// EffectiveActive reports whether the sale is switched on and not yet ended.
// Expiry is evaluated lazily at read time.
func (f FlashSale) EffectiveActive(now time.Time) bool {
	return f.Active && now.Before(f.EndTime)
}

// Promotion returns the flash sale as a percent promotion usable at checkout.
func (f FlashSale) Promotion() Promotion {
	return Promotion{
		ID:          "flash-sale",
		Code:        f.DiscountCode,
		Type:        DiscountPercent,
		Value:       f.DiscountPercent,
		Active:      f.Active,
		Description: f.Title,
	}
}
