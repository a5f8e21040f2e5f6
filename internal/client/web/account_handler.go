package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/client/identity"
	"github.com/booknest/booknest/internal/client/roles"
	"github.com/booknest/booknest/internal/client/session"
	"github.com/booknest/booknest/internal/core/domain"
)

// AccountHandler covers sign-in, sign-up, federated sign-in, sign-out, and
// the profile page. Successful auth actions answer with a redirect back to
// the page that sent the user here.
type AccountHandler struct {
	sess     *session.Session
	resolver *roles.Resolver
}

func NewAccountHandler(sess *session.Session, resolver *roles.Resolver) *AccountHandler {
	return &AccountHandler{sess: sess, resolver: resolver}
}

type signInPage struct {
	Next     string `json:"next"`
	SignedIn bool   `json:"signed_in"`
}

// SignInPage handles GET /signin. It is never guarded, so a signed-in user
// landing here is told so instead of being bounced back to itself.
func (h *AccountHandler) SignInPage(c echo.Context) error {
	return RenderReady(c, signInPage{
		Next:     SafeReturnPath(c.QueryParam("next")),
		SignedIn: h.sess.Identity() != nil,
	})
}

type signInForm struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Next     string `json:"next" form:"next"`
}

// SignIn handles POST /signin.
func (h *AccountHandler) SignIn(c echo.Context) error {
	var form signInForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	if err := h.sess.SignIn(c.Request().Context(), form.Email, form.Password); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, SafeReturnPath(form.Next))
}

type signUpForm struct {
	Email       string `json:"email" form:"email" validate:"required,email"`
	Password    string `json:"password" form:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" form:"display_name" validate:"required"`
	Next        string `json:"next" form:"next"`
}

// SignUp handles POST /signup. A successful registration signs the user in.
func (h *AccountHandler) SignUp(c echo.Context) error {
	var form signUpForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	if err := h.sess.SignUp(c.Request().Context(), form.Email, form.Password, form.DisplayName); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, SafeReturnPath(form.Next))
}

// SignOut handles POST /signout.
func (h *AccountHandler) SignOut(c echo.Context) error {
	if err := h.sess.SignOut(c.Request().Context()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// FederatedStart handles GET /auth/google. The return path rides along as
// the state parameter and comes back on the callback.
func (h *AccountHandler) FederatedStart(c echo.Context) error {
	state := SafeReturnPath(c.QueryParam("next"))
	return c.Redirect(http.StatusSeeOther, h.sess.FederatedSignInURL(state))
}

// FederatedCallback handles GET /auth/callback.
func (h *AccountHandler) FederatedCallback(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing token")
	}
	if err := h.sess.CompleteFederatedSignIn(c.Request().Context(), token); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, SafeReturnPath(c.QueryParam("state")))
}

type profileView struct {
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	PhotoURL    string      `json:"photo_url,omitempty"`
	Role        domain.Role `json:"role"`
	RolePending bool        `json:"role_pending"`
}

// Profile handles GET /profile.
func (h *AccountHandler) Profile(c echo.Context) error {
	id := h.sess.Identity()
	if id == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}
	role, pending := h.resolver.Resolve(c.Request().Context())
	return RenderReady(c, profileView{
		Email:       id.Email,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
		Role:        role,
		RolePending: pending,
	})
}

type profileForm struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
}

// UpdateProfile handles PUT /profile. Only the fields present change.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var form profileForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	err := h.sess.UpdateProfile(c.Request().Context(), identity.ProfileUpdate{
		DisplayName: form.DisplayName,
		PhotoURL:    form.PhotoURL,
	})
	if err != nil {
		return err
	}
	return h.Profile(c)
}
