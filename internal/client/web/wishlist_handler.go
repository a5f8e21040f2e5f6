package web

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/client/bookstore"
	"github.com/booknest/booknest/internal/client/query"
	"github.com/booknest/booknest/internal/core/domain"
)

// WishlistHandler serves the saved-books list and its add/remove mutations.
type WishlistHandler struct {
	queries *query.Queries
	api     *bookstore.Client

	add    *query.Mutation[string, domain.WishlistEntry]
	remove *query.Mutation[string, struct{}]
}

func NewWishlistHandler(queries *query.Queries, api *bookstore.Client) *WishlistHandler {
	h := &WishlistHandler{queries: queries, api: api}

	h.add = query.NewMutation(queries, query.MutationConfig[string, domain.WishlistEntry]{
		Run:                func(ctx context.Context, bookID string) (domain.WishlistEntry, error) { return api.AddToWishlist(ctx, bookID) },
		InvalidatePrefixes: []string{"wishlist"},
	})
	h.remove = query.NewMutation(queries, query.MutationConfig[string, struct{}]{
		Run: func(ctx context.Context, entryID string) (struct{}, error) {
			return struct{}{}, api.RemoveFromWishlist(ctx, entryID)
		},
		InvalidatePrefixes: []string{"wishlist"},
	})
	return h
}

// List handles GET /wishlist.
func (h *WishlistHandler) List(c echo.Context) error {
	email := SessionEmail(c)
	entries, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey("wishlist", email),
		func(ctx context.Context) ([]domain.WishlistEntry, error) {
			return h.api.Wishlist(ctx)
		},
		query.Options{},
	)
	if err != nil {
		return err
	}
	return RenderReady(c, entries)
}

type wishlistForm struct {
	BookID string `json:"book_id" validate:"required"`
}

// Add handles POST /wishlist. Saving a book twice is a conflict.
func (h *WishlistHandler) Add(c echo.Context) error {
	var form wishlistForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	entry, err := h.add.Trigger(c.Request().Context(), form.BookID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Envelope{State: StateReady, Data: entry})
}

// Remove handles DELETE /wishlist/:id.
func (h *WishlistHandler) Remove(c echo.Context) error {
	if _, err := h.remove.Trigger(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
