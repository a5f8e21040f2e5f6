package ports

import (
	"context"

	"github.com/booknest/booknest/internal/core/domain"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, email string, role domain.Role) (*domain.User, error)
	UpdateProfile(ctx context.Context, email string, displayName, photoURL *string) (*domain.User, error)
}

// AuthService implements registration, login, and token-holder lookup.
type AuthService interface {
	// Register creates an account with the default role and signs it in.
	Register(ctx context.Context, email, password, displayName string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// FederatedLogin signs in an externally verified identity, creating the
	// account on first contact.
	FederatedLogin(ctx context.Context, email, displayName string) (string, *domain.User, error)
	// Me resolves the account behind a verified token subject.
	Me(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, email string, displayName, photoURL *string) (*domain.User, error)
}

// UserService covers the admin-facing account operations.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	SetRole(ctx context.Context, email string, role domain.Role) (*domain.User, error)
	// RoleOf returns the stored role for the given account.
	RoleOf(ctx context.Context, email string) (domain.Role, error)
}
