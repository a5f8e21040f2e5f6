package web

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/client/bookstore"
	"github.com/booknest/booknest/internal/client/query"
	"github.com/booknest/booknest/internal/core/domain"
)

// PaymentHandler drives the hosted-checkout round trip: hand the user off to
// the payment page, then reconcile the order when they come back.
type PaymentHandler struct {
	api       *bookstore.Client
	publicURL string

	confirm *query.Mutation[paymentResult, domain.Order]
}

type paymentResult struct {
	OrderID   string
	SessionID string
}

func NewPaymentHandler(queries *query.Queries, api *bookstore.Client, publicURL string) *PaymentHandler {
	return &PaymentHandler{
		api:       api,
		publicURL: publicURL,
		confirm: query.NewMutation(queries, query.MutationConfig[paymentResult, domain.Order]{
			Run: func(ctx context.Context, in paymentResult) (domain.Order, error) {
				return api.ConfirmPayment(ctx, in.OrderID, in.SessionID)
			},
			InvalidatePrefixes: []string{"orders", "invoices"},
		}),
	}
}

// Start handles POST /orders/:id/pay: creates a checkout session and sends
// the browser to the hosted payment page.
func (h *PaymentHandler) Start(c echo.Context) error {
	id := c.Param("id")
	session, err := h.api.CreateCheckoutSession(c.Request().Context(), id,
		h.publicURL+"/payment/success?order_id="+id,
		h.publicURL+"/payment/cancel?order_id="+id,
	)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, session.RedirectURL)
}

// Success handles GET /payment/success: the return leg. The order is marked
// paid on the backend before anything renders, so a refresh cannot lose it.
func (h *PaymentHandler) Success(c echo.Context) error {
	orderID := c.QueryParam("order_id")
	sessionID := c.QueryParam("session_id")
	if orderID == "" || sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing order_id or session_id")
	}

	order, err := h.confirm.Trigger(c.Request().Context(), paymentResult{OrderID: orderID, SessionID: sessionID})
	if err != nil {
		return err
	}
	return RenderReady(c, order)
}

type paymentCancelled struct {
	OrderID string `json:"order_id"`
	Message string `json:"message"`
}

// Cancel handles GET /payment/cancel. The order stays pending and unpaid.
func (h *PaymentHandler) Cancel(c echo.Context) error {
	return RenderReady(c, paymentCancelled{
		OrderID: c.QueryParam("order_id"),
		Message: "payment cancelled, your order is still awaiting payment",
	})
}
