package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/booknest/booknest/internal/client/remote"
)

func authStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tkn-1",
			"user":  map[string]string{"email": in["email"], "display_name": "Ana"},
		})
	})
	mux.HandleFunc("GET /v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tkn-1" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid token"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"email": "ana@example.com", "display_name": "Ana"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSignInEmitsIdentity(t *testing.T) {
	srv := authStub(t)
	p, err := NewHTTP(srv.URL, "", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	var emissions []*Identity
	unsub := p.Subscribe(func(id *Identity) { emissions = append(emissions, id) })
	defer unsub()

	if err := p.SignIn(context.Background(), "ana@example.com", "s3cret"); err != nil {
		t.Fatal(err)
	}

	if len(emissions) != 1 {
		t.Fatalf("emissions: got %d, want 1", len(emissions))
	}
	if emissions[0] == nil || emissions[0].Email != "ana@example.com" {
		t.Fatalf("emitted: %+v", emissions[0])
	}
	if p.Token() != "tkn-1" {
		t.Fatalf("token: got %q", p.Token())
	}
}

func TestSignInPropagatesProviderError(t *testing.T) {
	srv := authStub(t)
	p, _ := NewHTTP(srv.URL, "", zerolog.Nop())

	err := p.SignIn(context.Background(), "ana@example.com", "wrong")
	if !errors.Is(err, remote.ErrUnauthenticated) {
		t.Fatalf("err: got %v, want ErrUnauthenticated", err)
	}
	if p.Current() != nil {
		t.Fatal("identity must stay nil after failed sign-in")
	}
}

func TestSignOutClearsIdentityAndToken(t *testing.T) {
	srv := authStub(t)
	tokenPath := filepath.Join(t.TempDir(), "session")
	p, _ := NewHTTP(srv.URL, tokenPath, zerolog.Nop())

	if err := p.SignIn(context.Background(), "ana@example.com", "s3cret"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(tokenPath); err != nil {
		t.Fatalf("token not persisted: %v", err)
	}

	var last *Identity = &Identity{Email: "sentinel"}
	unsub := p.Subscribe(func(id *Identity) { last = id })
	defer unsub()

	if err := p.SignOut(context.Background()); err != nil {
		t.Fatal(err)
	}
	if last != nil {
		t.Fatalf("expected nil emission on sign-out, got %+v", last)
	}
	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Fatal("token file should be removed on sign-out")
	}
}

func TestStartRestoresPersistedSession(t *testing.T) {
	srv := authStub(t)
	tokenPath := filepath.Join(t.TempDir(), "session")
	if err := os.WriteFile(tokenPath, []byte("tkn-1"), 0o600); err != nil {
		t.Fatal(err)
	}

	p, _ := NewHTTP(srv.URL, tokenPath, zerolog.Nop())
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	id := p.Current()
	if id == nil || id.Email != "ana@example.com" {
		t.Fatalf("restored identity: %+v", id)
	}

	// A listener attached after restore still gets the current state.
	var got *Identity
	unsub := p.Subscribe(func(i *Identity) { got = i })
	defer unsub()
	if got == nil || got.Email != "ana@example.com" {
		t.Fatalf("late subscriber emission: %+v", got)
	}
}

func TestStartRejectsStaleToken(t *testing.T) {
	srv := authStub(t)
	tokenPath := filepath.Join(t.TempDir(), "session")
	if err := os.WriteFile(tokenPath, []byte("expired"), 0o600); err != nil {
		t.Fatal(err)
	}

	p, _ := NewHTTP(srv.URL, tokenPath, zerolog.Nop())
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.Current() != nil {
		t.Fatal("stale token must not restore an identity")
	}
	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Fatal("stale token file should be removed")
	}
}
