package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/booknest/booknest/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = user.Email
	}
	r.users[copy.Email] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, email string, role domain.Role) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, email string, displayName, photoURL *string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if displayName != nil {
		u.DisplayName = *displayName
	}
	if photoURL != nil {
		u.PhotoURL = *photoURL
	}
	return cloneUser(u), nil
}

func TestAuthService_Register_HashesAndDefaultsRole(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	token, user, err := svc.Register(context.Background(), "ana@example.com", "pass123", "Ana")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}
	if user.PasswordHash == "pass123" {
		t.Fatal("password stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("fresh accounts must start as user, got %s", user.Role)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	if _, _, err := svc.Register(context.Background(), "ana@example.com", "pass123", "Ana"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "ana@example.com", "other", "Ana"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_TokenCarriesSubjectAndRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	if _, _, err := svc.Register(context.Background(), "ana@example.com", "pass123", "Ana"); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, _, err := svc.Login(context.Background(), "ana@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["sub"] != "ana@example.com" || claims["role"] != string(domain.RoleUser) {
		t.Fatalf("claims = %v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	if _, _, err := svc.Register(context.Background(), "ana@example.com", "pass123", "Ana"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "ana@example.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_SetRole_RejectsPending(t *testing.T) {
	repo := newStubUserRepo()
	auth := NewAuthService(repo, "secret", time.Hour)
	if _, _, err := auth.Register(context.Background(), "ana@example.com", "pass123", "Ana"); err != nil {
		t.Fatalf("register: %v", err)
	}

	svc := NewUserService(repo)
	if _, err := svc.SetRole(context.Background(), "ana@example.com", domain.RolePending); err == nil {
		t.Fatal("pending must not be storable as an account role")
	}

	user, err := svc.SetRole(context.Background(), "ana@example.com", domain.RoleLibrarian)
	if err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if user.Role != domain.RoleLibrarian {
		t.Fatalf("role = %s", user.Role)
	}

	role, err := svc.RoleOf(context.Background(), "ana@example.com")
	if err != nil || role != domain.RoleLibrarian {
		t.Fatalf("RoleOf = %s, %v", role, err)
	}
}
