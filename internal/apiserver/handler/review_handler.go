package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/core/ports"
)

type ReviewHandler struct {
	reviews ports.ReviewService
	auth    ports.AuthService
}

func NewReviewHandler(reviews ports.ReviewService, auth ports.AuthService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, auth: auth}
}

type postReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// ListByBook returns a book's reviews. Public.
func (h *ReviewHandler) ListByBook(c echo.Context) error {
	reviews, err := h.reviews.ListByBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Post(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req postReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// The display name rides on the review so listings render without a
	// user join.
	name := email
	if user, err := h.auth.Me(c.Request().Context(), email); err == nil && user.DisplayName != "" {
		name = user.DisplayName
	}

	review, err := h.reviews.Post(c.Request().Context(), ports.PostReviewInput{
		BookID:    c.Param("id"),
		UserEmail: email,
		UserName:  name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, review)
}
