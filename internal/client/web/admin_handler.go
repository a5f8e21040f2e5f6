package web

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/client/bookstore"
	"github.com/booknest/booknest/internal/client/query"
	"github.com/booknest/booknest/internal/client/roles"
	"github.com/booknest/booknest/internal/core/domain"
)

// AdminHandler serves the dashboard landing page, user management, and the
// sales statistics view.
type AdminHandler struct {
	queries  *query.Queries
	api      *bookstore.Client
	resolver *roles.Resolver

	setRole *query.Mutation[roleChange, domain.User]
}

type roleChange struct {
	Email string
	Role  domain.Role
}

func NewAdminHandler(queries *query.Queries, api *bookstore.Client, resolver *roles.Resolver) *AdminHandler {
	return &AdminHandler{
		queries:  queries,
		api:      api,
		resolver: resolver,
		setRole: query.NewMutation(queries, query.MutationConfig[roleChange, domain.User]{
			Run: func(ctx context.Context, in roleChange) (domain.User, error) {
				return api.SetUserRole(ctx, in.Email, in.Role)
			},
			// A role change rewrites what the affected user may see, so the
			// cached role resolution goes stale along with the user list.
			InvalidatePrefixes: []string{"users", "role"},
		}),
	}
}

type dashboardView struct {
	Role         domain.Role `json:"role"`
	ManageBooks  bool        `json:"manage_books"`
	ManageOrders bool        `json:"manage_orders"`
	ManageUsers  bool        `json:"manage_users"`
	ViewStats    bool        `json:"view_stats"`
}

// Home handles GET /dashboard: the section links the current role unlocks.
func (h *AdminHandler) Home(c echo.Context) error {
	role, _ := h.resolver.Resolve(c.Request().Context())
	return RenderReady(c, dashboardView{
		Role:         role,
		ManageBooks:  role.Can(domain.CapManageBooks),
		ManageOrders: role.Can(domain.CapManageOrders),
		ManageUsers:  role.Can(domain.CapManageUsers),
		ViewStats:    role.Can(domain.CapViewStats),
	})
}

// Users handles GET /dashboard/users.
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey("users"),
		func(ctx context.Context) ([]domain.User, error) {
			return h.api.ListUsers(ctx)
		},
		query.Options{},
	)
	if err != nil {
		return err
	}
	return RenderReady(c, users)
}

type roleForm struct {
	Role string `json:"role" validate:"required,oneof=user librarian admin"`
}

// SetRole handles PATCH /dashboard/users/:email/role.
func (h *AdminHandler) SetRole(c echo.Context) error {
	var form roleForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	user, err := h.setRole.Trigger(c.Request().Context(), roleChange{
		Email: c.Param("email"),
		Role:  domain.Role(form.Role),
	})
	if err != nil {
		return err
	}
	return RenderReady(c, user)
}

// Stats handles GET /dashboard/stats. Cached numbers render immediately and
// refresh in the background.
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey("stats"),
		func(ctx context.Context) (bookstore.Stats, error) {
			return h.api.Stats(ctx)
		},
		query.Options{Revalidate: true},
	)
	if err != nil {
		return err
	}
	return RenderReady(c, stats)
}
