package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/booknest/booknest/internal/core/domain"
)

type stubWishlistRepo struct {
	entries map[string]*domain.WishlistEntry
	nextID  int
}

func newStubWishlistRepo() *stubWishlistRepo {
	return &stubWishlistRepo{entries: make(map[string]*domain.WishlistEntry)}
}

func (r *stubWishlistRepo) Insert(_ context.Context, e *domain.WishlistEntry) (*domain.WishlistEntry, error) {
	r.nextID++
	clone := *e
	clone.ID = fmt.Sprintf("w%d", r.nextID)
	r.entries[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubWishlistRepo) FindByID(_ context.Context, id string) (*domain.WishlistEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrWishlistEntryNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubWishlistRepo) FindByUserAndBook(_ context.Context, email, bookID string) (*domain.WishlistEntry, error) {
	for _, e := range r.entries {
		if e.UserEmail == email && e.BookID == bookID {
			clone := *e
			return &clone, nil
		}
	}
	return nil, domain.ErrWishlistEntryNotFound
}

func (r *stubWishlistRepo) ListByUser(_ context.Context, email string) ([]*domain.WishlistEntry, error) {
	var out []*domain.WishlistEntry
	for _, e := range r.entries {
		if e.UserEmail == email {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubWishlistRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.entries[id]; !ok {
		return domain.ErrWishlistEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

func newWishlistFixture() *WishlistService {
	books := newStubBookRepo(
		&domain.Book{ID: "b1", Title: "Dune", Author: "Herbert", Price: 12.5, Status: domain.BookPublished},
	)
	return NewWishlistService(newStubWishlistRepo(), books)
}

func TestWishlistService_Add_SnapshotsBook(t *testing.T) {
	svc := newWishlistFixture()

	entry, err := svc.Add(context.Background(), "ana@example.com", "b1")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if entry.Title != "Dune" || entry.Author != "Herbert" || entry.Price != 12.5 {
		t.Fatalf("snapshot missing: %+v", entry)
	}
}

func TestWishlistService_Add_DuplicateIsConflict(t *testing.T) {
	svc := newWishlistFixture()

	if _, err := svc.Add(context.Background(), "ana@example.com", "b1"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := svc.Add(context.Background(), "ana@example.com", "b1"); !errors.Is(err, domain.ErrDuplicateWishlist) {
		t.Fatalf("expected ErrDuplicateWishlist, got %v", err)
	}
}

func TestWishlistService_Remove_OwnerOnly(t *testing.T) {
	svc := newWishlistFixture()
	entry, _ := svc.Add(context.Background(), "ana@example.com", "b1")

	if err := svc.Remove(context.Background(), "rival@example.com", entry.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger remove: expected ErrForbidden, got %v", err)
	}
	if err := svc.Remove(context.Background(), "ana@example.com", entry.ID); err != nil {
		t.Fatalf("owner remove: %v", err)
	}

	list, _ := svc.List(context.Background(), "ana@example.com")
	if len(list) != 0 {
		t.Fatalf("list after remove has %d entries", len(list))
	}
}
