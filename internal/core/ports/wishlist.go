package ports

import (
	"context"

	"github.com/booknest/booknest/internal/core/domain"
)

// WishlistRepository defines persistence operations for wishlist entries.
type WishlistRepository interface {
	Insert(ctx context.Context, e *domain.WishlistEntry) (*domain.WishlistEntry, error)
	FindByID(ctx context.Context, id string) (*domain.WishlistEntry, error)
	FindByUserAndBook(ctx context.Context, email, bookID string) (*domain.WishlistEntry, error)
	ListByUser(ctx context.Context, email string) ([]*domain.WishlistEntry, error)
	Delete(ctx context.Context, id string) error
}

// WishlistService manages a user's saved books. Adding the same book twice
// is a conflict; entries snapshot display fields at save time.
type WishlistService interface {
	Add(ctx context.Context, email, bookID string) (*domain.WishlistEntry, error)
	Remove(ctx context.Context, email, entryID string) error
	List(ctx context.Context, email string) ([]*domain.WishlistEntry, error)
}
