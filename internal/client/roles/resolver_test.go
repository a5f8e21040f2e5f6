package roles

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/booknest/booknest/internal/client/identity"
	"github.com/booknest/booknest/internal/client/query"
	"github.com/booknest/booknest/internal/client/session"
	"github.com/booknest/booknest/internal/core/domain"
)

type fakeProvider struct {
	listeners []identity.Listener
	current   *identity.Identity
}

func (p *fakeProvider) emit(id *identity.Identity) {
	p.current = id
	for _, l := range p.listeners {
		l(id)
	}
}

func (p *fakeProvider) Subscribe(l identity.Listener) func() {
	p.listeners = append(p.listeners, l)
	return func() {}
}

func (p *fakeProvider) SignUp(context.Context, string, string, string) error { return nil }
func (p *fakeProvider) SignIn(context.Context, string, string) error         { return nil }
func (p *fakeProvider) FederatedSignInURL(string) string                     { return "" }
func (p *fakeProvider) CompleteFederatedSignIn(context.Context, string) error {
	return nil
}
func (p *fakeProvider) SignOut(context.Context) error                          { return nil }
func (p *fakeProvider) UpdateProfile(context.Context, identity.ProfileUpdate) error { return nil }
func (p *fakeProvider) Current() *identity.Identity                            { return p.current }
func (p *fakeProvider) Token() string                                          { return "" }

type fakeRoleAPI struct {
	role  domain.Role
	err   error
	calls atomic.Int64
}

func (f *fakeRoleAPI) FetchRole(ctx context.Context) (domain.Role, error) {
	f.calls.Add(1)
	return f.role, f.err
}

func setup(t *testing.T, api RoleFetcher) (*fakeProvider, *Resolver) {
	t.Helper()
	q := query.New(zerolog.Nop())
	t.Cleanup(q.Close)
	p := &fakeProvider{}
	s := session.New(p)
	t.Cleanup(s.Close)
	r := New(q, s, api, p)
	t.Cleanup(r.Close)
	return p, r
}

func TestResolvePendingWhileSessionLoading(t *testing.T) {
	api := &fakeRoleAPI{role: domain.RoleAdmin}
	_, r := setup(t, api)

	role, pending := r.Resolve(context.Background())
	if !pending || role != domain.RolePending {
		t.Fatalf("got (%v, %v), want pending while session loads", role, pending)
	}
	if api.calls.Load() != 0 {
		t.Fatal("role must not be fetched before an identity is known")
	}
}

func TestResolvePendingWithoutIdentity(t *testing.T) {
	api := &fakeRoleAPI{role: domain.RoleAdmin}
	p, r := setup(t, api)

	p.emit(nil) // restored, signed out

	role, pending := r.Resolve(context.Background())
	if !pending || role != domain.RolePending {
		t.Fatalf("got (%v, %v), want pending without identity", role, pending)
	}
	if api.calls.Load() != 0 {
		t.Fatal("role must not be fetched for a signed-out session")
	}
}

func TestResolveReturnsRoleAndCaches(t *testing.T) {
	api := &fakeRoleAPI{role: domain.RoleLibrarian}
	p, r := setup(t, api)

	p.emit(&identity.Identity{Email: "li@example.com"})

	for i := 0; i < 3; i++ {
		role, pending := r.Resolve(context.Background())
		if pending || role != domain.RoleLibrarian {
			t.Fatalf("resolve %d: got (%v, %v)", i, role, pending)
		}
	}
	if n := api.calls.Load(); n != 1 {
		t.Fatalf("role fetches: got %d, want 1 (cached)", n)
	}
}

func TestResolveErrorStaysPending(t *testing.T) {
	api := &fakeRoleAPI{err: errors.New("upstream down")}
	p, r := setup(t, api)

	p.emit(&identity.Identity{Email: "ana@example.com"})

	role, pending := r.Resolve(context.Background())
	if !pending {
		t.Fatal("fetch error must resolve as pending, not as a role")
	}
	if role == domain.RoleUser {
		t.Fatal("fetch error must never collapse to the least-privileged role")
	}
}

func TestIdentityChangeInvalidatesRole(t *testing.T) {
	api := &fakeRoleAPI{role: domain.RoleUser}
	p, r := setup(t, api)

	p.emit(&identity.Identity{Email: "ana@example.com"})
	if _, pending := r.Resolve(context.Background()); pending {
		t.Fatal("first resolve should complete")
	}

	// Same account signs in again after a role change upstream.
	api.role = domain.RoleAdmin
	p.emit(nil)
	p.emit(&identity.Identity{Email: "ana@example.com"})

	role, pending := r.Resolve(context.Background())
	if pending || role != domain.RoleAdmin {
		t.Fatalf("got (%v, %v), want refreshed admin role", role, pending)
	}
	if n := api.calls.Load(); n != 2 {
		t.Fatalf("role fetches: got %d, want 2 (cache invalidated on auth change)", n)
	}
}
