package ports

import (
	"context"

	"github.com/booknest/booknest/internal/core/domain"
)

// ListBooksFilter narrows the catalog listing.
type ListBooksFilter struct {
	// Category is an optional exact match.
	Category string
	// Statuses restricts by publication status; empty means no restriction.
	Statuses []domain.BookStatus
	// LibrarianEmail scopes the listing to one librarian's inventory.
	LibrarianEmail string
}

// BookRepository defines persistence operations for catalog items.
type BookRepository interface {
	Insert(ctx context.Context, b *domain.Book) (*domain.Book, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	List(ctx context.Context, filter ListBooksFilter) ([]*domain.Book, error)
	Update(ctx context.Context, b *domain.Book) (*domain.Book, error)
	Delete(ctx context.Context, id string) error
	// SetRating stores the denormalized review average on the book.
	SetRating(ctx context.Context, id string, rating float64) error
}

// BookInput carries the librarian-editable fields.
type BookInput struct {
	Title       string
	Author      string
	Price       float64
	Category    string
	Status      domain.BookStatus
	ImageURL    string
	Description string
}

// CatalogService defines the catalog use cases. Visibility rules: published
// books are public; unpublished ones are shown only to admins and the owning
// librarian.
type CatalogService interface {
	ListPublished(ctx context.Context, category string) ([]*domain.Book, error)
	Get(ctx context.Context, id string, role domain.Role, viewerEmail string) (*domain.Book, error)
	Inventory(ctx context.Context, librarianEmail string, role domain.Role) ([]*domain.Book, error)
	Create(ctx context.Context, in BookInput, librarianEmail string) (*domain.Book, error)
	Update(ctx context.Context, id string, in BookInput, role domain.Role, actorEmail string) (*domain.Book, error)
	Delete(ctx context.Context, id string, role domain.Role, actorEmail string) error
}
