package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware. A
// missing subject means the middleware did not run on this route.
func ctxClaims(c echo.Context) (email string, role domain.Role, err error) {
	email, _ = c.Get("email").(string)
	if email == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	roleStr, _ := c.Get("role").(string)
	return email, domain.Role(roleStr), nil
}
