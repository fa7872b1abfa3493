package user

import (
	"context"
	"errors"
)

var ErrUsernameTooShort = errors.New("username must be at least 3 characters")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a user with an already-hashed password. The caller is
// responsible for hashing and strength checks.
func (s *Service) Register(ctx context.Context, username, email, hashedPassword string, role Role) (User, error) {
	if len(username) < 3 {
		return User{}, ErrUsernameTooShort
	}
	if !role.Valid() {
		role = RoleMember
	}

	newUser := &User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     role,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return User{}, err
	}

	return *newUser, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.GetByUsername(ctx, username)
}
