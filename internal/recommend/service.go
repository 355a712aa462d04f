package recommend

import (
	"context"
	"fmt"
)

// Service fetches candidates and runs the pure scorer over them.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Recommend returns the ranked, explainable results for one interaction.
func (s *Service) Recommend(ctx context.Context, input Input) ([]ScoredResult, error) {
	candidates, err := s.repo.CandidatesByMood(ctx, input.Mood)
	if err != nil {
		return nil, fmt.Errorf("recommend: fetch candidates: %w", err)
	}
	return Score(input, candidates), nil
}
