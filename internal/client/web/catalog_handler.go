package web

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/client/bookstore"
	"github.com/booknest/booknest/internal/client/query"
	"github.com/booknest/booknest/internal/client/roles"
	"github.com/booknest/booknest/internal/core/domain"
)

// CatalogHandler renders the public catalog and the librarian inventory, and
// owns the book mutations.
type CatalogHandler struct {
	queries  *query.Queries
	api      *bookstore.Client
	resolver *roles.Resolver

	createBook *query.Mutation[bookstore.BookInput, domain.Book]
	updateBook *query.Mutation[bookUpdate, domain.Book]
	deleteBook *query.Mutation[string, struct{}]
}

type bookUpdate struct {
	ID    string
	Input bookstore.BookInput
}

func NewCatalogHandler(queries *query.Queries, api *bookstore.Client, resolver *roles.Resolver) *CatalogHandler {
	h := &CatalogHandler{queries: queries, api: api, resolver: resolver}

	h.createBook = query.NewMutation(queries, query.MutationConfig[bookstore.BookInput, domain.Book]{
		Run:                func(ctx context.Context, in bookstore.BookInput) (domain.Book, error) { return api.CreateBook(ctx, in) },
		InvalidatePrefixes: []string{"books", "inventory"},
	})
	h.updateBook = query.NewMutation(queries, query.MutationConfig[bookUpdate, domain.Book]{
		Run: func(ctx context.Context, in bookUpdate) (domain.Book, error) {
			return api.UpdateBook(ctx, in.ID, in.Input)
		},
		InvalidatePrefixes: []string{"books", "inventory"},
	})
	h.deleteBook = query.NewMutation(queries, query.MutationConfig[string, struct{}]{
		Run: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, api.DeleteBook(ctx, id)
		},
		InvalidatePrefixes: []string{"books", "inventory"},
	})
	return h
}

func booksKey(category string) query.Key {
	if category == "" {
		return query.NewKey("books")
	}
	return query.NewKey("books", "category", category)
}

// Browse handles GET /: the published catalog, optionally by category.
// Cached results render immediately and revalidate in the background.
func (h *CatalogHandler) Browse(c echo.Context) error {
	category := c.QueryParam("category")
	books, err := query.Fetch(c.Request().Context(), h.queries, booksKey(category),
		func(ctx context.Context) ([]domain.Book, error) {
			return h.api.ListBooks(ctx, category)
		},
		query.Options{Revalidate: true},
	)
	if err != nil {
		return err
	}
	return RenderReady(c, books)
}

type bookDetail struct {
	Book      domain.Book          `json:"book"`
	Reviews   []domain.Review      `json:"reviews"`
	Rating    domain.RatingSummary `json:"rating"`
	CanManage bool                 `json:"can_manage"`
	CanReview bool                 `json:"can_review"`
}

// Detail handles GET /books/:id: the item page with its review aggregation.
// Action flags come from the capability check; a pending role shows none.
func (h *CatalogHandler) Detail(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	book, err := query.Fetch(ctx, h.queries, query.NewKey("books", id),
		func(ctx context.Context) (domain.Book, error) {
			return h.api.GetBook(ctx, id)
		},
		query.Options{},
	)
	if err != nil {
		return err
	}

	reviews, err := query.Fetch(ctx, h.queries, query.NewKey("reviews", id),
		func(ctx context.Context) ([]domain.Review, error) {
			return h.api.ListReviews(ctx, id)
		},
		query.Options{},
	)
	if err != nil {
		return err
	}

	role, _ := h.resolver.Resolve(ctx)
	return RenderReady(c, bookDetail{
		Book:      book,
		Reviews:   reviews,
		Rating:    domain.Summarize(reviews),
		CanManage: role.Can(domain.CapManageBooks),
		CanReview: role.Can(domain.CapPostReview),
	})
}

// Inventory handles GET /dashboard/inventory: the librarian's own books,
// unpublished included.
func (h *CatalogHandler) Inventory(c echo.Context) error {
	email := SessionEmail(c)
	books, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey("inventory", email),
		func(ctx context.Context) ([]domain.Book, error) {
			return h.api.MyInventory(ctx)
		},
		query.Options{},
	)
	if err != nil {
		return err
	}
	return RenderReady(c, books)
}

type bookForm struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Status      string  `json:"status" validate:"omitempty,oneof=published unpublished"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	Description string  `json:"description"`
}

func (f bookForm) input() bookstore.BookInput {
	status := f.Status
	if status == "" {
		status = string(domain.BookUnpublished)
	}
	return bookstore.BookInput{
		Title:       f.Title,
		Author:      f.Author,
		Price:       f.Price,
		Category:    f.Category,
		Status:      status,
		ImageURL:    f.ImageURL,
		Description: f.Description,
	}
}

// Create handles POST /dashboard/books.
func (h *CatalogHandler) Create(c echo.Context) error {
	var form bookForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	book, err := h.createBook.Trigger(c.Request().Context(), form.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Envelope{State: StateReady, Data: book})
}

// Update handles PUT /dashboard/books/:id.
func (h *CatalogHandler) Update(c echo.Context) error {
	var form bookForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	book, err := h.updateBook.Trigger(c.Request().Context(), bookUpdate{ID: c.Param("id"), Input: form.input()})
	if err != nil {
		return err
	}
	return RenderReady(c, book)
}

// Delete handles DELETE /dashboard/books/:id.
func (h *CatalogHandler) Delete(c echo.Context) error {
	if _, err := h.deleteBook.Trigger(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
