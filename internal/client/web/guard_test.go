package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/booknest/booknest/internal/client/identity"
	"github.com/booknest/booknest/internal/client/query"
	"github.com/booknest/booknest/internal/client/roles"
	"github.com/booknest/booknest/internal/client/session"
	"github.com/booknest/booknest/internal/core/domain"
)

// guardProvider is an identity.Provider whose auth state the test scripts.
type guardProvider struct {
	current *identity.Identity
	emit    bool // deliver current on Subscribe; false simulates a stream that has not settled
}

func (p *guardProvider) SignUp(context.Context, string, string, string) error { return nil }
func (p *guardProvider) SignIn(context.Context, string, string) error         { return nil }
func (p *guardProvider) FederatedSignInURL(string) string                     { return "" }
func (p *guardProvider) CompleteFederatedSignIn(context.Context, string) error {
	return nil
}
func (p *guardProvider) SignOut(context.Context) error                        { return nil }
func (p *guardProvider) UpdateProfile(context.Context, identity.ProfileUpdate) error {
	return nil
}
func (p *guardProvider) Subscribe(l identity.Listener) func() {
	if p.emit {
		l(p.current)
	}
	return func() {}
}
func (p *guardProvider) Current() *identity.Identity { return p.current }
func (p *guardProvider) Token() string               { return "" }

type guardRoleAPI struct {
	role domain.Role
	err  error
}

func (a *guardRoleAPI) FetchRole(context.Context) (domain.Role, error) {
	return a.role, a.err
}

func guardFixture(t *testing.T, p *guardProvider, api *guardRoleAPI, required ...domain.Role) (*echo.Echo, echo.MiddlewareFunc) {
	t.Helper()
	q := query.New(zerolog.Nop())
	t.Cleanup(q.Close)

	sess := session.New(p)
	t.Cleanup(sess.Close)
	resolver := roles.New(q, sess, api, p)
	t.Cleanup(resolver.Close)

	e := echo.New()
	return e, Guard(sess, resolver, required...)
}

func runGuarded(e *echo.Echo, mw echo.MiddlewareFunc, target string, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = mw(handler)(c)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestGuardRendersPendingWhileSessionLoads(t *testing.T) {
	p := &guardProvider{emit: false} // stream never settles
	e, mw := guardFixture(t, p, &guardRoleAPI{role: domain.RoleUser})

	rec := runGuarded(e, mw, "/orders", okHandler)

	if env := decodeEnvelope(t, rec); env.State != StatePending {
		t.Fatalf("state = %q, want %q", env.State, StatePending)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("Retry-After = %q, want 1", got)
	}
}

func TestGuardRedirectsAnonymousToSignInWithReturnPath(t *testing.T) {
	p := &guardProvider{current: nil, emit: true}
	e, mw := guardFixture(t, p, &guardRoleAPI{role: domain.RoleUser})

	rec := runGuarded(e, mw, "/orders?page=2", okHandler)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	if got, want := rec.Header().Get("Location"), "/signin?next=%2Forders%3Fpage%3D2"; got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

func TestGuardRendersPendingWhileRoleUnresolved(t *testing.T) {
	p := &guardProvider{current: &identity.Identity{Email: "ana@example.com"}, emit: true}
	e, mw := guardFixture(t, p, &guardRoleAPI{err: errors.New("upstream down")}, domain.RoleAdmin)

	rec := runGuarded(e, mw, "/dashboard", okHandler)

	// A failed resolution must stay pending, never downgrade to user access.
	if env := decodeEnvelope(t, rec); env.State != StatePending {
		t.Fatalf("state = %q, want %q", env.State, StatePending)
	}
}

func TestGuardRedirectsInsufficientRoleHome(t *testing.T) {
	p := &guardProvider{current: &identity.Identity{Email: "ana@example.com"}, emit: true}
	e, mw := guardFixture(t, p, &guardRoleAPI{role: domain.RoleUser}, domain.RoleLibrarian, domain.RoleAdmin)

	rec := runGuarded(e, mw, "/dashboard/inventory", okHandler)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/" {
		t.Fatalf("Location = %q, want /", got)
	}
}

func TestGuardAdmitsSufficientRoleAndSetsContext(t *testing.T) {
	p := &guardProvider{current: &identity.Identity{Email: "admin@example.com"}, emit: true}
	e, mw := guardFixture(t, p, &guardRoleAPI{role: domain.RoleAdmin}, domain.RoleAdmin)

	var gotEmail string
	var gotRole domain.Role
	rec := runGuarded(e, mw, "/dashboard/users", func(c echo.Context) error {
		gotEmail = SessionEmail(c)
		gotRole = SessionRole(c)
		return c.NoContent(http.StatusOK)
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if gotEmail != "admin@example.com" {
		t.Fatalf("email = %q", gotEmail)
	}
	if gotRole != domain.RoleAdmin {
		t.Fatalf("role = %q", gotRole)
	}
}

func TestGuardWithoutRoleRequirementAdmitsAnySignedInUser(t *testing.T) {
	p := &guardProvider{current: &identity.Identity{Email: "ana@example.com"}, emit: true}
	e, mw := guardFixture(t, p, &guardRoleAPI{role: domain.RoleUser})

	rec := runGuarded(e, mw, "/orders", okHandler)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
}

func TestSafeReturnPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", "/"},
		{"/orders", "/orders"},
		{"/books/42?tab=reviews", "/books/42?tab=reviews"},
		{"//evil.example.com", "/"},
		{"http://evil.example.com", "/"},
		{"books", "/"},
	}
	for _, tc := range cases {
		if got := SafeReturnPath(tc.in); got != tc.want {
			t.Errorf("SafeReturnPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
