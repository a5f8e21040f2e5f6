package service

import (
	"context"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

// UserService covers admin account management and the role lookup the client
// resolves against.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) SetRole(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.repo.UpdateRole(ctx, email, role)
}

func (s *UserService) RoleOf(ctx context.Context, email string) (domain.Role, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
