package ports

import (
	"context"

	"github.com/booknest/booknest/internal/core/domain"
)

// ListOrdersFilter narrows the fulfilment board listing.
type ListOrdersFilter struct {
	Status        domain.OrderStatus
	PaymentStatus domain.PaymentStatus
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Insert(ctx context.Context, o *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, email string) ([]*domain.Order, error)
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	MarkPaid(ctx context.Context, id string) (*domain.Order, error)
}

// OrderDeduper guards against double submission of the same purchase.
type OrderDeduper interface {
	// IsDuplicate reports whether an equal placement was recently recorded.
	IsDuplicate(ctx context.Context, email, bookID string) (bool, error)
	// Mark records a placement for the dedup window.
	Mark(ctx context.Context, email, bookID string) error
}

// PlaceOrderInput carries a purchase request.
type PlaceOrderInput struct {
	BookID        string
	CustomerEmail string
	Address       string
	Phone         string
}

// OrderService defines the order use cases. Status changes follow the order
// state machine; callers below librarian may only cancel their own orders.
type OrderService interface {
	Place(ctx context.Context, in PlaceOrderInput) (*domain.Order, error)
	ListMine(ctx context.Context, email string) ([]*domain.Order, error)
	ListAll(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, error)
	Cancel(ctx context.Context, id string, role domain.Role, actorEmail string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (*domain.Order, error)
	Invoice(ctx context.Context, id string, role domain.Role, actorEmail string) (*domain.Invoice, error)
}

// CheckoutSession is the hosted-payment handoff returned to the client.
type CheckoutSession struct {
	SessionID   string
	RedirectURL string
}

// PaymentService creates checkout sessions and reconciles completed payments.
type PaymentService interface {
	CreateSession(ctx context.Context, orderID, customerEmail, successURL, cancelURL string) (*CheckoutSession, error)
	// Confirm marks the order paid after the session round trip completes.
	Confirm(ctx context.Context, orderID, sessionID, customerEmail string) (*domain.Order, error)
}
