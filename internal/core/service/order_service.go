package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

// OrderService implements the order lifecycle. Placement is idempotent over
// a short window via the dedup checker; status changes follow the order
// state machine.
type OrderService struct {
	orders ports.OrderRepository
	books  ports.BookRepository
	dedup  ports.OrderDeduper
	log    zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, books ports.BookRepository, dedup ports.OrderDeduper, log zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, books: books, dedup: dedup, log: log}
}

func (s *OrderService) Place(ctx context.Context, in ports.PlaceOrderInput) (*domain.Order, error) {
	dup, err := s.dedup.IsDuplicate(ctx, in.CustomerEmail, in.BookID)
	if err != nil {
		// A broken dedup store must not block purchases.
		s.log.Warn().Err(err).Msg("order dedup check failed, allowing placement")
	} else if dup {
		return nil, domain.ErrDuplicateOrder
	}

	book, err := s.books.FindByID(ctx, in.BookID)
	if err != nil {
		return nil, err
	}
	if book.Status != domain.BookPublished {
		return nil, domain.ErrBookUnavailable
	}

	now := time.Now().UTC()
	order := &domain.Order{
		BookID:        book.ID,
		BookTitle:     book.Title,
		CustomerEmail: in.CustomerEmail,
		Price:         book.Price,
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentUnpaid,
		Address:       in.Address,
		Phone:         in.Phone,
		PlacedAt:      now,
		UpdatedAt:     now,
	}

	created, err := s.orders.Insert(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := s.dedup.Mark(ctx, in.CustomerEmail, in.BookID); err != nil {
		s.log.Warn().Err(err).Str("order_id", created.ID).Msg("order dedup mark failed")
	}
	return created, nil
}

func (s *OrderService) ListMine(ctx context.Context, email string) ([]*domain.Order, error) {
	return s.orders.ListByCustomer(ctx, email)
}

func (s *OrderService) ListAll(ctx context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, error) {
	return s.orders.List(ctx, filter)
}

func (s *OrderService) Cancel(ctx context.Context, id string, role domain.Role, actorEmail string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && role != domain.RoleLibrarian && order.CustomerEmail != actorEmail {
		return nil, domain.ErrForbidden
	}
	if !order.CancellableBy(role, actorEmail) {
		return nil, domain.ErrInvalidTransition
	}
	return s.orders.SetStatus(ctx, id, domain.OrderCancelled)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}
	return s.orders.SetStatus(ctx, id, next)
}

func (s *OrderService) Invoice(ctx context.Context, id string, role domain.Role, actorEmail string) (*domain.Invoice, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && role != domain.RoleLibrarian && order.CustomerEmail != actorEmail {
		return nil, domain.ErrForbidden
	}
	if order.PaymentStatus != domain.PaymentPaid {
		return nil, domain.ErrOrderNotPaid
	}
	return &domain.Invoice{
		OrderID:       order.ID,
		BookTitle:     order.BookTitle,
		CustomerEmail: order.CustomerEmail,
		Price:         order.Price,
		Address:       order.Address,
		IssuedAt:      order.UpdatedAt,
	}, nil
}
