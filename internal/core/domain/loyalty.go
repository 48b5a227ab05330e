package domain

import "strings"

type LoyaltyAccount struct {
	Phone  string `json:"phone"`
	Points int    `json:"points"`
}

type RewardTier struct {
	Cost        int     `json:"cost"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
}

// Favorites maps a customer phone to favorite menu item IDs.
type Favorites map[string][]string

// NormalizePhone strips formatting so "+1 (555) 010-2030" and "+15550102030"
// key the same customer. A leading plus is kept.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
