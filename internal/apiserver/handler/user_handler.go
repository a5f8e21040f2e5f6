package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user librarian admin"`
}

type roleResponse struct {
	Role domain.Role `json:"role"`
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) SetRole(c echo.Context) error {
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.SetRole(c.Request().Context(), c.Param("email"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// MyRole returns the caller's stored role. The client's role resolver polls
// this endpoint.
func (h *UserHandler) MyRole(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	role, err := h.users.RoleOf(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roleResponse{Role: role})
}
