package recommend

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository fetches scoring candidates. No ordering is guaranteed; the
// scorer imposes its own deterministic order.
type Repository interface {
	CandidatesByMood(ctx context.Context, mood Mood) ([]CandidateItem, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed candidate source.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) CandidatesByMood(ctx context.Context, mood Mood) ([]CandidateItem, error) {
	const query = `
		SELECT id, title, mood, tags, duration_minutes, cost_level, intensity
		FROM content_items
		WHERE mood = $1 AND is_published
	`
	rows, err := r.pool.Query(ctx, query, string(mood))
	if err != nil {
		return nil, fmt.Errorf("recommend: query candidates: %w", err)
	}
	defer rows.Close()

	var items []CandidateItem
	for rows.Next() {
		var item CandidateItem
		var mood string
		if err := rows.Scan(&item.ID, &item.Title, &mood, &item.Tags, &item.DurationMinutes, &item.CostLevel, &item.Intensity); err != nil {
			return nil, fmt.Errorf("recommend: scan candidate: %w", err)
		}
		item.Mood = Mood(mood)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recommend: iterate candidates: %w", err)
	}
	return items, nil
}
