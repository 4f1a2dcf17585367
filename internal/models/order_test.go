package models

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderShipped, false},
		{OrderPending, OrderDelivered, false},
		{OrderConfirmed, OrderShipped, true},
		{OrderConfirmed, OrderCancelled, true},
		{OrderConfirmed, OrderDelivered, false},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, false},
		{OrderDelivered, OrderReturned, true},
		{OrderDelivered, OrderCancelled, false},
		// terminal states never move
		{OrderCancelled, OrderPending, false},
		{OrderCancelled, OrderConfirmed, false},
		{OrderReturned, OrderDelivered, false},
		// no self-loops
		{OrderPending, OrderPending, false},
		{OrderShipped, OrderShipped, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled, OrderReturned} {
		if !ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%s) = false, want true", s)
		}
	}
	for _, s := range []OrderStatus{"", "paid", "PENDING", "done"} {
		if ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = true, want false", s)
		}
	}
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range PaymentMethods {
		if !ValidPaymentMethod(m) {
			t.Errorf("ValidPaymentMethod(%q) = false, want true", m)
		}
	}
	for _, m := range []string{"", "cash", "CREDIT_CARD", "paypal"} {
		if ValidPaymentMethod(m) {
			t.Errorf("ValidPaymentMethod(%q) = true, want false", m)
		}
	}
}
