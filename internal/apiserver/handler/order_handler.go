package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type placeOrderRequest struct {
	BookID  string `json:"book_id" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending shipped delivered cancelled"`
}

func (h *OrderHandler) Place(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.orders.Place(c.Request().Context(), ports.PlaceOrderInput{
		BookID:        req.BookID,
		CustomerEmail: email,
		Address:       req.Address,
		Phone:         req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) Mine(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListMine(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) All(c echo.Context) error {
	orders, err := h.orders.ListAll(c.Request().Context(), ports.ListOrdersFilter{
		Status:        domain.OrderStatus(c.QueryParam("status")),
		PaymentStatus: domain.PaymentStatus(c.QueryParam("payment_status")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	email, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	order, err := h.orders.Cancel(c.Request().Context(), c.Param("id"), role, email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req orderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Invoice(c echo.Context) error {
	email, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	invoice, err := h.orders.Invoice(c.Request().Context(), c.Param("id"), role, email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}
