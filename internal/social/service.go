package social

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownKind rejects reaction kinds outside the fixed vocabulary.
var ErrUnknownKind = errors.New("social: unknown reaction kind")

// Service wraps reaction business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// React records a reaction. Reacting twice with the same kind is a no-op so
// clients can retry safely.
func (s *Service) React(ctx context.Context, userID, itemID int64, kind Kind) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	err := s.repo.Add(ctx, userID, itemID, kind)
	if errors.Is(err, ErrDuplicate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("react: %w", err)
	}
	return nil
}

// Unreact removes a reaction. Removing an absent reaction is a no-op.
func (s *Service) Unreact(ctx context.Context, userID, itemID int64, kind Kind) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	err := s.repo.Remove(ctx, userID, itemID, kind)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unreact: %w", err)
	}
	return nil
}

// CountsForItem aggregates reactions for an item.
func (s *Service) CountsForItem(ctx context.Context, itemID int64) (Counts, error) {
	return s.repo.CountsForItem(ctx, itemID)
}

// SavedItemIDs lists the items a user has saved, most recent first.
func (s *Service) SavedItemIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.repo.SavedItemIDs(ctx, userID)
}
