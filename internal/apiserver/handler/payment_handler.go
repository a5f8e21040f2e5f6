package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/core/ports"
)

type PaymentHandler struct {
	payments ports.PaymentService
}

func NewPaymentHandler(payments ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type checkoutRequest struct {
	OrderID    string `json:"order_id" validate:"required"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

type checkoutResponse struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

type confirmRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

func (h *PaymentHandler) CreateSession(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.payments.CreateSession(c.Request().Context(), req.OrderID, email, req.SuccessURL, req.CancelURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, checkoutResponse{
		SessionID:   session.SessionID,
		RedirectURL: session.RedirectURL,
	})
}

func (h *PaymentHandler) Confirm(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.payments.Confirm(c.Request().Context(), c.Param("id"), req.SessionID, email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
