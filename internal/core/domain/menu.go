package domain

type Category string

const (
	CategoryClassic   Category = "classic"
	CategoryVeggie    Category = "veggie"
	CategoryMeat      Category = "meat"
	CategorySpecialty Category = "specialty"
)

// Recipe maps an ingredient ID to the quantity consumed per unit sold.
type Recipe map[string]float64

type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Image       string   `json:"image,omitempty"`
	Category    Category `json:"category"`
	IsPopular   bool     `json:"isPopular,omitempty"`
	Recipe      Recipe   `json:"recipe,omitempty"`
}

// CartLine is a denormalized menu item snapshot with a quantity. Orders keep
// these verbatim so later menu edits never change history.
type CartLine struct {
	MenuItem
	Quantity int `json:"quantity"`
}

func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}
