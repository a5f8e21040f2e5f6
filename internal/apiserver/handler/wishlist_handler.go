package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/core/ports"
)

type WishlistHandler struct {
	wishlist ports.WishlistService
}

func NewWishlistHandler(wishlist ports.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

type addWishlistRequest struct {
	BookID string `json:"book_id" validate:"required"`
}

func (h *WishlistHandler) List(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	entries, err := h.wishlist.List(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *WishlistHandler) Add(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req addWishlistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry, err := h.wishlist.Add(c.Request().Context(), email, req.BookID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *WishlistHandler) Remove(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.wishlist.Remove(c.Request().Context(), email, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
