package content

import (
	"context"
	"fmt"
)

// Service wraps catalog business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*Item, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListItemsRequest) ([]Item, int, error) {
	if req.Limit == 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// ListPublished is the public catalog view: published items only.
func (s *Service) ListPublished(ctx context.Context, req ListItemsRequest) ([]Item, int, error) {
	published := true
	req.IsPublished = &published
	return s.List(ctx, req)
}

func (s *Service) Create(ctx context.Context, req CreateItemRequest, createdBy int64) (*Item, error) {
	item := Item{
		Title:           req.Title,
		Kind:            req.Kind,
		Mood:            req.Mood,
		Tags:            req.Tags,
		DurationMinutes: req.DurationMinutes,
		CostLevel:       req.CostLevel,
		Intensity:       req.Intensity,
		URL:             req.URL,
		IsPublished:     false,
		CreatedBy:       createdBy,
	}

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		id, err = repo.Create(ctx, item)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	item.ID = id
	return &item, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateItemRequest) (*Item, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Kind != nil {
		updates["kind"] = *req.Kind
	}
	if req.Mood != nil {
		updates["mood"] = *req.Mood
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.CostLevel != nil {
		updates["cost_level"] = *req.CostLevel
	}
	if req.Intensity != nil {
		updates["intensity"] = *req.Intensity
	}
	if req.URL != nil {
		updates["url"] = *req.URL
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	if len(updates) > 0 {
		err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
			return repo.Update(ctx, id, updates)
		})
		if err != nil {
			return nil, fmt.Errorf("update item: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Delete(ctx, id)
	})
}
