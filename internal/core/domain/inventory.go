package domain

type Ingredient struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Threshold   float64 `json:"threshold"` // low stock warning level
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
}

func (i Ingredient) IsLow() bool {
	return i.Quantity < i.Threshold
}
