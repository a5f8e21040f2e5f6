package domain

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderPending, OrderShipped, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderDelivered, false},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, true},
		{OrderShipped, OrderPending, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderCancelled, OrderCancelled, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if OrderPending.Terminal() || OrderShipped.Terminal() {
		t.Fatal("pending/shipped must not be terminal")
	}
	if !OrderDelivered.Terminal() || !OrderCancelled.Terminal() {
		t.Fatal("delivered/cancelled must be terminal")
	}
}

func TestOrderCancellableBy(t *testing.T) {
	order := &Order{CustomerEmail: "ana@example.com", Status: OrderPending}

	if !order.CancellableBy(RoleUser, "ana@example.com") {
		t.Error("owner should cancel a pending order")
	}
	if order.CancellableBy(RoleUser, "someone@else.com") {
		t.Error("non-owner user must not cancel")
	}
	if !order.CancellableBy(RoleLibrarian, "any@example.com") {
		t.Error("librarian should cancel a pending order")
	}

	order.Status = OrderDelivered
	if order.CancellableBy(RoleAdmin, "any@example.com") {
		t.Error("delivered order must not be cancellable, even by admin")
	}
	order.Status = OrderCancelled
	if order.CancellableBy(RoleUser, "ana@example.com") {
		t.Error("cancelled order must not be cancellable again")
	}
}
