package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/client/roles"
	"github.com/booknest/booknest/internal/client/session"
	"github.com/booknest/booknest/internal/core/domain"
)

// Context keys set by the guard for downstream views.
const (
	ctxEmail = "session_email"
	ctxRole  = "session_role"
)

// SignInPath is where unauthenticated requests are sent. It is never
// guarded itself, so redirects cannot loop.
const SignInPath = "/signin"

// Guard gates a route subtree on session presence and, when requiredRoles is
// non-empty, on the resolved role.
//
// While the session or the role is unresolved it renders the neutral pending
// placeholder: an unresolved role is never treated as RoleUser. Without an
// identity it redirects to sign-in, preserving the requested location; with
// an identity but an insufficient role it redirects home.
func Guard(sess *session.Session, resolver *roles.Resolver, requiredRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sess.Loading() {
				return RenderPending(c)
			}

			id := sess.Identity()
			if id == nil {
				target := SignInPath + "?next=" + url.QueryEscape(c.Request().RequestURI)
				return c.Redirect(http.StatusSeeOther, target)
			}

			role, pending := resolver.Resolve(c.Request().Context())
			if pending {
				return RenderPending(c)
			}
			if len(requiredRoles) > 0 && !roleAllowed(role, requiredRoles) {
				return c.Redirect(http.StatusSeeOther, "/")
			}

			c.Set(ctxEmail, id.Email)
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// SessionEmail returns the signed-in email set by the guard.
func SessionEmail(c echo.Context) string {
	email, _ := c.Get(ctxEmail).(string)
	return email
}

// SessionRole returns the resolved role set by the guard.
func SessionRole(c echo.Context) domain.Role {
	role, ok := c.Get(ctxRole).(domain.Role)
	if !ok {
		return domain.RolePending
	}
	return role
}

// SafeReturnPath validates a post-sign-in return target: relative paths
// only, to keep the redirect inside the application.
func SafeReturnPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
