package identity

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/booknest/booknest/internal/client/remote"
)

// HTTPProvider talks to the auth endpoints of the BookNest backend. The
// session token is persisted to a file between runs and restored by Start.
type HTTPProvider struct {
	rc        *remote.Client
	authBase  string
	tokenPath string
	log       zerolog.Logger

	mu        sync.Mutex
	current   *Identity
	restored  bool
	listeners map[int]Listener
	nextID    int
}

// NewHTTP builds an HTTPProvider against baseURL. tokenPath is where the
// session credential is persisted; empty disables persistence.
func NewHTTP(baseURL, tokenPath string, log zerolog.Logger) (*HTTPProvider, error) {
	p := &HTTPProvider{
		authBase:  strings.TrimRight(baseURL, "/"),
		tokenPath: tokenPath,
		log:       log,
		listeners: make(map[int]Listener),
	}
	// The provider is its own token source: requests after sign-in carry
	// the credential it holds.
	rc, err := remote.New(baseURL, p, log)
	if err != nil {
		return nil, err
	}
	p.rc = rc
	return p, nil
}

type userPayload struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

type authPayload struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

// Start restores a persisted session, if any, and makes the first auth-state
// emission. Call once before serving.
func (p *HTTPProvider) Start(ctx context.Context) error {
	token := p.loadToken()
	if token == "" {
		p.setCurrent(nil)
		return nil
	}

	p.mu.Lock()
	p.current = &Identity{Token: token} // credential only, until /me confirms
	p.mu.Unlock()

	var user userPayload
	if err := p.rc.GetJSON(ctx, "/v1/auth/me", &user); err != nil {
		p.log.Warn().Err(err).Msg("persisted session rejected, signing out")
		p.clearToken()
		p.setCurrent(nil)
		return nil
	}

	p.setCurrent(&Identity{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		Token:       token,
	})
	return nil
}

func (p *HTTPProvider) SignUp(ctx context.Context, email, password, displayName string) error {
	in := map[string]string{"email": email, "password": password, "display_name": displayName}
	if err := p.rc.PostJSON(ctx, "/v1/auth/register", in, nil); err != nil {
		return err
	}
	return p.SignIn(ctx, email, password)
}

func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) error {
	in := map[string]string{"email": email, "password": password}
	var out authPayload
	if err := p.rc.PostJSON(ctx, "/v1/auth/login", in, &out); err != nil {
		return err
	}
	p.adopt(out)
	return nil
}

// FederatedSignInURL points the browser at the provider's federated flow;
// the provider redirects back with a session token.
func (p *HTTPProvider) FederatedSignInURL(state string) string {
	return fmt.Sprintf("%s/v1/auth/google?state=%s", p.authBase, url.QueryEscape(state))
}

func (p *HTTPProvider) CompleteFederatedSignIn(ctx context.Context, token string) error {
	p.mu.Lock()
	p.current = &Identity{Token: token}
	p.mu.Unlock()

	var user userPayload
	if err := p.rc.GetJSON(ctx, "/v1/auth/me", &user); err != nil {
		p.setCurrent(nil)
		return err
	}
	p.adopt(authPayload{Token: token, User: user})
	return nil
}

func (p *HTTPProvider) SignOut(ctx context.Context) error {
	p.clearToken()
	p.setCurrent(nil)
	return nil
}

func (p *HTTPProvider) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	in := map[string]any{}
	if update.DisplayName != nil {
		in["display_name"] = *update.DisplayName
	}
	if update.PhotoURL != nil {
		in["photo_url"] = *update.PhotoURL
	}
	var user userPayload
	if err := p.rc.PutJSON(ctx, "/v1/auth/profile", in, &user); err != nil {
		return err
	}

	p.mu.Lock()
	token := ""
	if p.current != nil {
		token = p.current.Token
	}
	p.mu.Unlock()
	p.setCurrent(&Identity{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		Token:       token,
	})
	return nil
}

func (p *HTTPProvider) Subscribe(l Listener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = l
	emit := p.restored
	current := p.current
	p.mu.Unlock()

	if emit {
		l(current)
	}
	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *HTTPProvider) Current() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Token implements remote.TokenSource.
func (p *HTTPProvider) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return ""
	}
	return p.current.Token
}

func (p *HTTPProvider) adopt(out authPayload) {
	p.saveToken(out.Token)
	p.setCurrent(&Identity{
		Email:       out.User.Email,
		DisplayName: out.User.DisplayName,
		PhotoURL:    out.User.PhotoURL,
		Token:       out.Token,
	})
}

// setCurrent replaces the identity and notifies every listener.
func (p *HTTPProvider) setCurrent(id *Identity) {
	p.mu.Lock()
	p.current = id
	p.restored = true
	listeners := make([]Listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l(id)
	}
}

func (p *HTTPProvider) loadToken() string {
	if p.tokenPath == "" {
		return ""
	}
	b, err := os.ReadFile(p.tokenPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (p *HTTPProvider) saveToken(token string) {
	if p.tokenPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(p.tokenPath), 0o700); err != nil {
		p.log.Warn().Err(err).Msg("cannot create token directory")
		return
	}
	if err := os.WriteFile(p.tokenPath, []byte(token), 0o600); err != nil {
		p.log.Warn().Err(err).Msg("cannot persist session token")
	}
}

func (p *HTTPProvider) clearToken() {
	if p.tokenPath == "" {
		return
	}
	_ = os.Remove(p.tokenPath)
}
