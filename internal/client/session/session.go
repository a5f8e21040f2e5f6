// Package session holds the process-wide session context: the current
// identity and a loading flag, fed by the identity provider's auth-state
// stream. One Session is constructed at startup and closed at shutdown.
package session

import (
	"context"
	"sync"

	"github.com/booknest/booknest/internal/client/identity"
)

// Session is the authoritative view of who is signed in. Reads are safe from
// any goroutine; the identity value itself is read-only to callers.
type Session struct {
	provider identity.Provider

	mu       sync.RWMutex
	identity *identity.Identity
	loading  bool

	unsubscribe func()
	closeOnce   sync.Once
}

// New subscribes to the provider's auth-state stream. The session reports
// loading=true until the first emission arrives.
func New(provider identity.Provider) *Session {
	s := &Session{provider: provider, loading: true}
	s.unsubscribe = provider.Subscribe(s.onAuthState)
	return s
}

// Close releases the auth-state subscription. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
	})
}

func (s *Session) onAuthState(id *identity.Identity) {
	s.mu.Lock()
	s.identity = id
	s.loading = false
	s.mu.Unlock()
}

// Identity returns the current identity, or nil when signed out or still
// loading.
func (s *Session) Identity() *identity.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Loading reports whether the first auth-state emission is still pending.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// --- Actions: thin delegations; provider errors propagate to the caller ---

func (s *Session) SignUp(ctx context.Context, email, password, displayName string) error {
	return s.provider.SignUp(ctx, email, password, displayName)
}

func (s *Session) SignIn(ctx context.Context, email, password string) error {
	return s.provider.SignIn(ctx, email, password)
}

func (s *Session) FederatedSignInURL(state string) string {
	return s.provider.FederatedSignInURL(state)
}

func (s *Session) CompleteFederatedSignIn(ctx context.Context, token string) error {
	return s.provider.CompleteFederatedSignIn(ctx, token)
}

func (s *Session) SignOut(ctx context.Context) error {
	return s.provider.SignOut(ctx)
}

func (s *Session) UpdateProfile(ctx context.Context, update identity.ProfileUpdate) error {
	return s.provider.UpdateProfile(ctx, update)
}
