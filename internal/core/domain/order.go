package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus tracks whether an order has been paid.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// validTransitions defines the allowed order state machine.
// Delivered and cancelled are terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderShipped, OrderCancelled},
	OrderShipped: {OrderDelivered, OrderCancelled},
}

var ErrOrderNotFound = errors.New("order not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrDuplicateOrder = errors.New("order already placed for this book")
var ErrOrderNotPaid = errors.New("order has not been paid")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// Order is a purchase of a single book by a customer.
type Order struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	BookID        string        `json:"book_id" bson:"book_id"`
	BookTitle     string        `json:"book_title" bson:"book_title"`
	CustomerEmail string        `json:"customer_email" bson:"customer_email"`
	Price         float64       `json:"price" bson:"price"`
	Status        OrderStatus   `json:"status" bson:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status"`
	Address       string        `json:"address" bson:"address"`
	Phone         string        `json:"phone" bson:"phone"`
	PlacedAt      time.Time     `json:"placed_at" bson:"placed_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// CancellableBy reports whether the given actor may cancel the order.
// Librarians and admins may cancel any non-terminal order; the owning
// customer may cancel while the order is not yet delivered or cancelled.
func (o *Order) CancellableBy(role Role, email string) bool {
	if o.Status.Terminal() || !o.Status.CanTransitionTo(OrderCancelled) {
		return false
	}
	if role == RoleAdmin || role == RoleLibrarian {
		return true
	}
	return o.CustomerEmail == email
}

// Invoice is the read-only projection of a paid order.
type Invoice struct {
	OrderID       string    `json:"order_id"`
	BookTitle     string    `json:"book_title"`
	CustomerEmail string    `json:"customer_email"`
	Price         float64   `json:"price"`
	Address       string    `json:"address"`
	IssuedAt      time.Time `json:"issued_at"`
}
