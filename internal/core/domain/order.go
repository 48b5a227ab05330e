package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusInProgress OrderStatus = "In Progress"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

const PaymentCash = "CASH"

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusInProgress: {OrderStatusDelivered, OrderStatusCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition reports whether s -> next is a forward move. Setting the
// current status again is allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Order struct {
	ID              string      `json:"id"`
	Customer        Customer    `json:"customer"`
	Items           []CartLine  `json:"items"`
	Total           float64     `json:"total"`
	DiscountApplied float64     `json:"discountApplied"`
	DeliveryFee     float64     `json:"deliveryFee"`
	DeliveryZone    string      `json:"deliveryZone"`
	Status          OrderStatus `json:"status"`
	Timestamp       time.Time   `json:"timestamp"`
	PaymentMethod   string      `json:"paymentMethod"`
}
