package ports

import (
	"context"

	"github.com/booknest/booknest/internal/core/domain"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	Insert(ctx context.Context, r *domain.Review) (*domain.Review, error)
	ListByBook(ctx context.Context, bookID string) ([]*domain.Review, error)
}

// PostReviewInput carries a review submission.
type PostReviewInput struct {
	BookID    string
	UserEmail string
	UserName  string
	Rating    int
	Comment   string
}

// ReviewService validates and stores reviews, keeping the book's
// denormalized rating current.
type ReviewService interface {
	Post(ctx context.Context, in PostReviewInput) (*domain.Review, error)
	ListByBook(ctx context.Context, bookID string) ([]*domain.Review, error)
}
