package domain

import (
	"testing"
	"time"
)

func TestOrderStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusInProgress, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusInProgress, OrderStatusDelivered, true},
		{OrderStatusInProgress, OrderStatusCancelled, true},
		{OrderStatusInProgress, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusCancelled, true},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.want, got)
		}
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	if !OrderStatusInProgress.Valid() {
		t.Error("expected In Progress to be valid")
	}
	if OrderStatus("Shipped").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}

func TestFlashSale_EffectiveActive(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sale := FlashSale{Active: true, EndTime: now.Add(time.Hour), DiscountCode: "PARTY20", DiscountPercent: 20}

	if !sale.EffectiveActive(now) {
		t.Error("expected sale to be active before end time")
	}
	if sale.EffectiveActive(now.Add(2 * time.Hour)) {
		t.Error("expected sale to be expired after end time")
	}

	sale.Active = false
	if sale.EffectiveActive(now) {
		t.Error("expected switched-off sale to be inactive")
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := map[string]string{
		"+1 (555) 010-2030": "+15550102030",
		"555.010.2030":      "5550102030",
		"  5550102030 ":     "5550102030",
		"55+5":              "555",
		"":                  "",
	}
	for in, want := range tests {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q): expected %q, got %q", in, want, got)
		}
	}
}
