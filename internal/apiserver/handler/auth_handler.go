package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

type AuthHandler struct {
	auth ports.AuthService
	// clientURL receives the redirect at the end of the federated flow.
	clientURL string
}

func NewAuthHandler(auth ports.AuthService, clientURL string) *AuthHandler {
	return &AuthHandler{auth: auth, clientURL: clientURL}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates an account with the default role and returns a token.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.auth.Register(c.Request().Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// Login authenticates and returns a JWT.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Google simulates the hosted federated sign-in page: it signs in a fixed
// demo Google identity and bounces straight back to the client callback with
// a token. A real deployment would run the OAuth dance here.
func (h *AuthHandler) Google(c echo.Context) error {
	token, _, err := h.auth.FederatedLogin(c.Request().Context(), "google.demo@example.com", "Demo Googler")
	if err != nil {
		return err
	}

	callback, err := url.Parse(h.clientURL + "/auth/callback")
	if err != nil {
		return err
	}
	q := callback.Query()
	q.Set("token", token)
	q.Set("state", c.QueryParam("state"))
	callback.RawQuery = q.Encode()

	return c.Redirect(http.StatusSeeOther, callback.String())
}

// Me returns the account behind the presented token. Clients use it to
// restore a persisted session.
func (h *AuthHandler) Me(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Me(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

type profileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
}

// UpdateProfile changes only the fields present in the payload.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.UpdateProfile(c.Request().Context(), email, req.DisplayName, req.PhotoURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
