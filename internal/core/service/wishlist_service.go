package service

import (
	"context"
	"time"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

// WishlistService manages saved books. Entries snapshot the book's display
// fields so the list renders without touching the catalog.
type WishlistService struct {
	wishlist ports.WishlistRepository
	books    ports.BookRepository
}

func NewWishlistService(wishlist ports.WishlistRepository, books ports.BookRepository) *WishlistService {
	return &WishlistService{wishlist: wishlist, books: books}
}

func (s *WishlistService) Add(ctx context.Context, email, bookID string) (*domain.WishlistEntry, error) {
	if existing, err := s.wishlist.FindByUserAndBook(ctx, email, bookID); err == nil && existing != nil {
		return nil, domain.ErrDuplicateWishlist
	}

	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	entry := &domain.WishlistEntry{
		BookID:    book.ID,
		UserEmail: email,
		Title:     book.Title,
		Author:    book.Author,
		Price:     book.Price,
		ImageURL:  book.ImageURL,
		AddedAt:   time.Now().UTC(),
	}
	return s.wishlist.Insert(ctx, entry)
}

func (s *WishlistService) Remove(ctx context.Context, email, entryID string) error {
	entry, err := s.wishlist.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.UserEmail != email {
		return domain.ErrForbidden
	}
	return s.wishlist.Delete(ctx, entryID)
}

func (s *WishlistService) List(ctx context.Context, email string) ([]*domain.WishlistEntry, error) {
	return s.wishlist.ListByUser(ctx, email)
}
