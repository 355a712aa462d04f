package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicate indicates the user already reacted with this kind.
var ErrDuplicate = errors.New("social: reaction already exists")

// ErrNotFound indicates the reaction does not exist.
var ErrNotFound = errors.New("social: reaction not found")

const uniqueViolation = "23505"

// Repository persists reactions.
type Repository interface {
	Add(ctx context.Context, userID, itemID int64, kind Kind) error
	Remove(ctx context.Context, userID, itemID int64, kind Kind) error
	CountsForItem(ctx context.Context, itemID int64) (Counts, error)
	SavedItemIDs(ctx context.Context, userID int64) ([]int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed reaction repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Add(ctx context.Context, userID, itemID int64, kind Kind) error {
	const query = `
		INSERT INTO item_reactions (user_id, item_id, kind)
		VALUES ($1, $2, $3)
	`
	if _, err := r.pool.Exec(ctx, query, userID, itemID, string(kind)); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("social: insert reaction: %w", err)
	}
	return nil
}

func (r *repository) Remove(ctx context.Context, userID, itemID int64, kind Kind) error {
	const query = `
		DELETE FROM item_reactions
		WHERE user_id = $1 AND item_id = $2 AND kind = $3
	`
	tag, err := r.pool.Exec(ctx, query, userID, itemID, string(kind))
	if err != nil {
		return fmt.Errorf("social: delete reaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) CountsForItem(ctx context.Context, itemID int64) (Counts, error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE kind = 'save'),
			COUNT(*) FILTER (WHERE kind = 'echo'),
			COUNT(*) FILTER (WHERE kind = 'wave')
		FROM item_reactions
		WHERE item_id = $1
	`
	counts := Counts{ItemID: itemID}
	if err := r.pool.QueryRow(ctx, query, itemID).Scan(&counts.Saves, &counts.Echoes, &counts.Waves); err != nil {
		return Counts{}, fmt.Errorf("social: count reactions: %w", err)
	}
	return counts, nil
}

func (r *repository) SavedItemIDs(ctx context.Context, userID int64) ([]int64, error) {
	const query = `
		SELECT item_id FROM item_reactions
		WHERE user_id = $1 AND kind = 'save'
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("social: query saves: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("social: scan save: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("social: iterate saves: %w", err)
	}
	return ids, nil
}
