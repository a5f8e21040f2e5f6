package service

import (
	"context"
	"time"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

// ReviewService stores reviews and keeps the book's denormalized average
// rating in step with them.
type ReviewService struct {
	reviews ports.ReviewRepository
	books   ports.BookRepository
}

func NewReviewService(reviews ports.ReviewRepository, books ports.BookRepository) *ReviewService {
	return &ReviewService{reviews: reviews, books: books}
}

func (s *ReviewService) Post(ctx context.Context, in ports.PostReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}
	if _, err := s.books.FindByID(ctx, in.BookID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		BookID:    in.BookID,
		UserEmail: in.UserEmail,
		UserName:  in.UserName,
		Rating:    in.Rating,
		Comment:   in.Comment,
		PostedAt:  time.Now().UTC(),
	}

	created, err := s.reviews.Insert(ctx, review)
	if err != nil {
		return nil, err
	}

	if err := s.refreshRating(ctx, in.BookID); err != nil {
		// The review itself landed; a stale average corrects on the next post.
		return created, nil
	}
	return created, nil
}

func (s *ReviewService) ListByBook(ctx context.Context, bookID string) ([]*domain.Review, error) {
	return s.reviews.ListByBook(ctx, bookID)
}

func (s *ReviewService) refreshRating(ctx context.Context, bookID string) error {
	list, err := s.reviews.ListByBook(ctx, bookID)
	if err != nil {
		return err
	}
	flat := make([]domain.Review, len(list))
	for i, r := range list {
		flat[i] = *r
	}
	return s.books.SetRating(ctx, bookID, domain.Summarize(flat).Average)
}
