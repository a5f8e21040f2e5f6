package web

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/client/bookstore"
	"github.com/booknest/booknest/internal/client/query"
	"github.com/booknest/booknest/internal/core/domain"
)

// ReviewsHandler owns review submission. Listing lives on the book detail
// view, which aggregates reviews into the rating summary.
type ReviewsHandler struct {
	post *query.Mutation[reviewSubmission, domain.Review]
}

type reviewSubmission struct {
	BookID  string
	Rating  int
	Comment string
}

func NewReviewsHandler(queries *query.Queries, api *bookstore.Client) *ReviewsHandler {
	return &ReviewsHandler{
		post: query.NewMutation(queries, query.MutationConfig[reviewSubmission, domain.Review]{
			Run: func(ctx context.Context, in reviewSubmission) (domain.Review, error) {
				return api.PostReview(ctx, in.BookID, in.Rating, in.Comment)
			},
			InvalidateKeys: func(in reviewSubmission) []query.Key {
				return []query.Key{query.NewKey("reviews", in.BookID), query.NewKey("books", in.BookID)}
			},
		}),
	}
}

type reviewForm struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// Post handles POST /books/:id/reviews. The rating is validated before any
// network round trip.
func (h *ReviewsHandler) Post(c echo.Context) error {
	var form reviewForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	review, err := h.post.Trigger(c.Request().Context(), reviewSubmission{
		BookID:  c.Param("id"),
		Rating:  form.Rating,
		Comment: form.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Envelope{State: StateReady, Data: review})
}
