package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

type stubReviewRepo struct {
	reviews []*domain.Review
	nextID  int
}

func (r *stubReviewRepo) Insert(_ context.Context, rev *domain.Review) (*domain.Review, error) {
	r.nextID++
	clone := *rev
	clone.ID = fmt.Sprintf("r%d", r.nextID)
	r.reviews = append(r.reviews, &clone)
	out := clone
	return &out, nil
}

func (r *stubReviewRepo) ListByBook(_ context.Context, bookID string) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, rev := range r.reviews {
		if rev.BookID == bookID {
			clone := *rev
			out = append(out, &clone)
		}
	}
	return out, nil
}

func TestReviewService_Post_RefreshesBookRating(t *testing.T) {
	books := newStubBookRepo(&domain.Book{ID: "b1", Title: "Dune", Status: domain.BookPublished})
	svc := NewReviewService(&stubReviewRepo{}, books)

	for _, rating := range []int{5, 4} {
		if _, err := svc.Post(context.Background(), ports.PostReviewInput{
			BookID: "b1", UserEmail: "ana@example.com", Rating: rating,
		}); err != nil {
			t.Fatalf("post rating %d: %v", rating, err)
		}
	}

	book, _ := books.FindByID(context.Background(), "b1")
	if book.Rating != 4.5 {
		t.Fatalf("book rating = %v, want 4.5", book.Rating)
	}
}

func TestReviewService_Post_RejectsOutOfRangeRating(t *testing.T) {
	books := newStubBookRepo(&domain.Book{ID: "b1", Status: domain.BookPublished})
	svc := NewReviewService(&stubReviewRepo{}, books)

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Post(context.Background(), ports.PostReviewInput{BookID: "b1", Rating: rating}); !errors.Is(err, domain.ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestReviewService_Post_UnknownBook(t *testing.T) {
	svc := NewReviewService(&stubReviewRepo{}, newStubBookRepo())

	if _, err := svc.Post(context.Background(), ports.PostReviewInput{BookID: "missing", Rating: 3}); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}
