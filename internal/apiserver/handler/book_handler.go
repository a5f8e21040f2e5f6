package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

type BookHandler struct {
	catalog ports.CatalogService
}

func NewBookHandler(catalog ports.CatalogService) *BookHandler {
	return &BookHandler{catalog: catalog}
}

type bookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Status      string  `json:"status" validate:"omitempty,oneof=published unpublished"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	Description string  `json:"description"`
}

func (r bookRequest) input() ports.BookInput {
	return ports.BookInput{
		Title:       r.Title,
		Author:      r.Author,
		Price:       r.Price,
		Category:    r.Category,
		Status:      domain.BookStatus(r.Status),
		ImageURL:    r.ImageURL,
		Description: r.Description,
	}
}

// List returns the published catalog. Public, no auth required.
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.catalog.ListPublished(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// Get returns one book, respecting draft visibility when the caller is
// authenticated. Anonymous callers see published books only.
func (h *BookHandler) Get(c echo.Context) error {
	email, _ := c.Get("email").(string)
	roleStr, _ := c.Get("role").(string)

	book, err := h.catalog.Get(c.Request().Context(), c.Param("id"), domain.Role(roleStr), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// Mine returns the caller's inventory, drafts included.
func (h *BookHandler) Mine(c echo.Context) error {
	email, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	books, err := h.catalog.Inventory(c.Request().Context(), email, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

func (h *BookHandler) Create(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.catalog.Create(c.Request().Context(), req.input(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) Update(c echo.Context) error {
	email, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.catalog.Update(c.Request().Context(), c.Param("id"), req.input(), role, email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Delete(c echo.Context) error {
	email, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.catalog.Delete(c.Request().Context(), c.Param("id"), role, email); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
