package domain

import "time"

type EventType string

const (
	EventOrderPlaced        EventType = "order.placed"
	EventOrderStatusChanged EventType = "order.status"
)

// OrderEvent is published after an order mutation has been committed.
type OrderEvent struct {
	Type       EventType   `json:"type"`
	OrderID    string      `json:"order_id"`
	Status     OrderStatus `json:"status"`
	Total      float64     `json:"total"`
	Phone      string      `json:"phone,omitempty"`
	Zone       string      `json:"zone,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
