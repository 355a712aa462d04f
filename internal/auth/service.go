package auth

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kivaw/kivaw/internal/authz"
	"github.com/kivaw/kivaw/internal/shared"
)

// Service wraps authentication business rules. It doubles as the guard's
// identity and role source.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Identity resolves a session user ID into the guard's identity shape.
func (s *Service) Identity(ctx context.Context, userID string) (*authz.Identity, error) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrNotFound
	}
	return &authz.Identity{
		UserID:       userID,
		Email:        user.Email,
		IsSuperAdmin: user.IsSuperAdmin,
	}, nil
}

// RoleKeys adapts the repository's role lookup to the guard's string-keyed
// contract.
func (s *Service) RoleKeys(ctx context.Context, userID string) ([]string, error) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return s.repo.RoleKeys(ctx, id)
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
