package service

import (
	"context"
	"time"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

// CatalogService implements the catalog use cases. Librarians own the books
// they create; admins may edit any book.
type CatalogService struct {
	books ports.BookRepository
}

func NewCatalogService(books ports.BookRepository) *CatalogService {
	return &CatalogService{books: books}
}

func (s *CatalogService) ListPublished(ctx context.Context, category string) ([]*domain.Book, error) {
	return s.books.List(ctx, ports.ListBooksFilter{
		Category: category,
		Statuses: []domain.BookStatus{domain.BookPublished},
	})
}

func (s *CatalogService) Get(ctx context.Context, id string, role domain.Role, viewerEmail string) (*domain.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !book.Visible(role, viewerEmail) {
		// Hidden books read as absent, not forbidden.
		return nil, domain.ErrBookNotFound
	}
	return book, nil
}

func (s *CatalogService) Inventory(ctx context.Context, librarianEmail string, role domain.Role) ([]*domain.Book, error) {
	filter := ports.ListBooksFilter{LibrarianEmail: librarianEmail}
	if role == domain.RoleAdmin {
		// Admins see the whole catalog, drafts included.
		filter.LibrarianEmail = ""
	}
	return s.books.List(ctx, filter)
}

func (s *CatalogService) Create(ctx context.Context, in ports.BookInput, librarianEmail string) (*domain.Book, error) {
	now := time.Now().UTC()
	book := &domain.Book{
		Title:          in.Title,
		Author:         in.Author,
		Price:          in.Price,
		Category:       in.Category,
		Status:         in.Status,
		ImageURL:       in.ImageURL,
		Description:    in.Description,
		LibrarianEmail: librarianEmail,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if book.Status == "" {
		book.Status = domain.BookUnpublished
	}
	return s.books.Insert(ctx, book)
}

func (s *CatalogService) Update(ctx context.Context, id string, in ports.BookInput, role domain.Role, actorEmail string) (*domain.Book, error) {
	book, err := s.ownedBook(ctx, id, role, actorEmail)
	if err != nil {
		return nil, err
	}

	book.Title = in.Title
	book.Author = in.Author
	book.Price = in.Price
	book.Category = in.Category
	book.ImageURL = in.ImageURL
	book.Description = in.Description
	if in.Status != "" {
		book.Status = in.Status
	}
	book.UpdatedAt = time.Now().UTC()

	return s.books.Update(ctx, book)
}

func (s *CatalogService) Delete(ctx context.Context, id string, role domain.Role, actorEmail string) error {
	if _, err := s.ownedBook(ctx, id, role, actorEmail); err != nil {
		return err
	}
	return s.books.Delete(ctx, id)
}

// ownedBook loads the book and checks write access: admins always, the
// owning librarian otherwise.
func (s *CatalogService) ownedBook(ctx context.Context, id string, role domain.Role, actorEmail string) (*domain.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && book.LibrarianEmail != actorEmail {
		return nil, domain.ErrForbidden
	}
	return book, nil
}
