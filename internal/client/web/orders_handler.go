package web

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/client/bookstore"
	"github.com/booknest/booknest/internal/client/query"
	"github.com/booknest/booknest/internal/core/domain"
)

// OrdersHandler serves the buyer's order history and the fulfilment board,
// and owns the order mutations.
type OrdersHandler struct {
	queries *query.Queries
	api     *bookstore.Client

	placeOrder   *query.Mutation[bookstore.PlaceOrderInput, domain.Order]
	cancelOrder  *query.Mutation[string, domain.Order]
	updateStatus *query.Mutation[statusChange, domain.Order]
}

type statusChange struct {
	OrderID string
	Status  domain.OrderStatus
}

func NewOrdersHandler(queries *query.Queries, api *bookstore.Client) *OrdersHandler {
	h := &OrdersHandler{queries: queries, api: api}

	h.placeOrder = query.NewMutation(queries, query.MutationConfig[bookstore.PlaceOrderInput, domain.Order]{
		Run:                func(ctx context.Context, in bookstore.PlaceOrderInput) (domain.Order, error) { return api.PlaceOrder(ctx, in) },
		InvalidatePrefixes: []string{"orders"},
	})
	h.cancelOrder = query.NewMutation(queries, query.MutationConfig[string, domain.Order]{
		Run:                func(ctx context.Context, id string) (domain.Order, error) { return api.CancelOrder(ctx, id) },
		InvalidatePrefixes: []string{"orders", "invoices"},
	})
	h.updateStatus = query.NewMutation(queries, query.MutationConfig[statusChange, domain.Order]{
		Run: func(ctx context.Context, in statusChange) (domain.Order, error) {
			return api.UpdateOrderStatus(ctx, in.OrderID, in.Status)
		},
		InvalidatePrefixes: []string{"orders"},
	})
	return h
}

// List handles GET /orders: the signed-in buyer's order history.
func (h *OrdersHandler) List(c echo.Context) error {
	email := SessionEmail(c)
	orders, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey("orders", email),
		func(ctx context.Context) ([]domain.Order, error) {
			return h.api.MyOrders(ctx)
		},
		query.Options{},
	)
	if err != nil {
		return err
	}
	return RenderReady(c, orders)
}

type placeOrderForm struct {
	BookID  string `json:"book_id" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// Place handles POST /orders. A duplicate submission of the same book within
// the dedup window surfaces as a conflict.
func (h *OrdersHandler) Place(c echo.Context) error {
	var form placeOrderForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	order, err := h.placeOrder.Trigger(c.Request().Context(), bookstore.PlaceOrderInput{
		BookID:  form.BookID,
		Address: form.Address,
		Phone:   form.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Envelope{State: StateReady, Data: order})
}

// Cancel handles POST /orders/:id/cancel.
func (h *OrdersHandler) Cancel(c echo.Context) error {
	order, err := h.cancelOrder.Trigger(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return RenderReady(c, order)
}

// Invoice handles GET /orders/:id/invoice. The backend refuses unpaid orders.
func (h *OrdersHandler) Invoice(c echo.Context) error {
	id := c.Param("id")
	invoice, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey("invoices", id),
		func(ctx context.Context) (domain.Invoice, error) {
			return h.api.Invoice(ctx, id)
		},
		query.Options{},
	)
	if err != nil {
		return err
	}
	return RenderReady(c, invoice)
}

// Manage handles GET /dashboard/orders: every order, filtered by status and
// payment state for the fulfilment board.
func (h *OrdersHandler) Manage(c echo.Context) error {
	status := c.QueryParam("status")
	payment := c.QueryParam("payment_status")
	orders, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey("orders", "all", status, payment),
		func(ctx context.Context) ([]domain.Order, error) {
			return h.api.AllOrders(ctx, status, payment)
		},
		query.Options{},
	)
	if err != nil {
		return err
	}
	return RenderReady(c, orders)
}

type statusForm struct {
	Status string `json:"status" validate:"required,oneof=pending shipped delivered cancelled"`
}

// UpdateStatus handles PATCH /dashboard/orders/:id/status. Illegal lifecycle
// jumps come back from the backend as conflicts.
func (h *OrdersHandler) UpdateStatus(c echo.Context) error {
	var form statusForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	order, err := h.updateStatus.Trigger(c.Request().Context(), statusChange{
		OrderID: c.Param("id"),
		Status:  domain.OrderStatus(form.Status),
	})
	if err != nil {
		return err
	}
	return RenderReady(c, order)
}
