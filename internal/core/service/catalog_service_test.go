package service

import (
	"context"
	"errors"
	"testing"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

func newCatalogFixture() *CatalogService {
	return NewCatalogService(newStubBookRepo(
		&domain.Book{ID: "b1", Title: "Dune", Category: "scifi", Status: domain.BookPublished, LibrarianEmail: "lib@example.com"},
		&domain.Book{ID: "b2", Title: "Draft", Category: "scifi", Status: domain.BookUnpublished, LibrarianEmail: "lib@example.com"},
	))
}

func TestCatalogService_ListPublished_HidesDrafts(t *testing.T) {
	svc := newCatalogFixture()

	books, err := svc.ListPublished(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(books) != 1 || books[0].ID != "b1" {
		t.Fatalf("published list = %+v", books)
	}
}

func TestCatalogService_Get_DraftVisibility(t *testing.T) {
	svc := newCatalogFixture()
	ctx := context.Background()

	if _, err := svc.Get(ctx, "b2", domain.RoleUser, "ana@example.com"); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("draft must read as absent to users, got %v", err)
	}
	if _, err := svc.Get(ctx, "b2", domain.RoleLibrarian, "other-lib@example.com"); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("draft must be hidden from other librarians, got %v", err)
	}
	if _, err := svc.Get(ctx, "b2", domain.RoleLibrarian, "lib@example.com"); err != nil {
		t.Fatalf("owner must see own draft: %v", err)
	}
	if _, err := svc.Get(ctx, "b2", domain.RoleAdmin, "root@example.com"); err != nil {
		t.Fatalf("admin must see any draft: %v", err)
	}
}

func TestCatalogService_Update_OwnershipEnforced(t *testing.T) {
	svc := newCatalogFixture()
	in := ports.BookInput{Title: "Dune (revised)", Author: "Herbert", Price: 15, Category: "scifi"}

	if _, err := svc.Update(context.Background(), "b1", in, domain.RoleLibrarian, "other-lib@example.com"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign librarian update: expected ErrForbidden, got %v", err)
	}

	book, err := svc.Update(context.Background(), "b1", in, domain.RoleLibrarian, "lib@example.com")
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if book.Title != "Dune (revised)" {
		t.Fatalf("title = %q", book.Title)
	}

	if _, err := svc.Update(context.Background(), "b1", in, domain.RoleAdmin, "root@example.com"); err != nil {
		t.Fatalf("admin update: %v", err)
	}
}

func TestCatalogService_Create_DefaultsToUnpublished(t *testing.T) {
	svc := newCatalogFixture()

	book, err := svc.Create(context.Background(), ports.BookInput{Title: "New", Author: "A", Price: 1, Category: "c"}, "lib@example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if book.Status != domain.BookUnpublished {
		t.Fatalf("status = %s, want unpublished", book.Status)
	}
	if book.LibrarianEmail != "lib@example.com" {
		t.Fatalf("owner = %q", book.LibrarianEmail)
	}
}
