// Package identity integrates the external identity provider: sign-up,
// sign-in (password and federated), sign-out, profile updates, and the
// asynchronous current-user stream the session context subscribes to.
package identity

import "context"

// Identity is the authenticated account as the provider reports it.
type Identity struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
	// Token is the bearer credential attached to backend requests.
	Token string `json:"-"`
}

// ProfileUpdate carries the mutable profile fields; nil means unchanged.
type ProfileUpdate struct {
	DisplayName *string
	PhotoURL    *string
}

// Listener receives auth-state emissions. A nil identity means signed out.
type Listener func(*Identity)

// Provider is the external identity service. Every action propagates the
// provider's error verbatim; callers own user-facing messaging.
type Provider interface {
	// SignUp registers an account and signs it in.
	SignUp(ctx context.Context, email, password, displayName string) error
	SignIn(ctx context.Context, email, password string) error
	// FederatedSignInURL returns the provider page to redirect the user to;
	// the flow finishes with CompleteFederatedSignIn.
	FederatedSignInURL(state string) string
	CompleteFederatedSignIn(ctx context.Context, token string) error
	SignOut(ctx context.Context) error
	UpdateProfile(ctx context.Context, update ProfileUpdate) error

	// Subscribe registers a listener on the auth-state stream and returns
	// its release function. If a session was already restored, the listener
	// is called immediately with the current state.
	Subscribe(l Listener) (unsubscribe func())
	// Current returns the identity of the signed-in account, or nil.
	Current() *Identity
	// Token implements remote.TokenSource.
	Token() string
}
