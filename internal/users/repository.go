// Package users serves the back-office user directory.
package users

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// DirectoryEntry is one row of the admin user listing.
type DirectoryEntry struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	IsActive     bool      `json:"is_active"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	RoleKeys     []string  `json:"role_keys"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository reads the user directory.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]DirectoryEntry, int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed directory.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]DirectoryEntry, int, error) {
	var (
		total   int
		entries []DirectoryEntry
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
			return fmt.Errorf("users: count: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		const query = `
			SELECT u.id, u.email, u.display_name, u.is_active, u.is_super_admin,
			       COALESCE(array_agg(ur.role_key) FILTER (WHERE ur.role_key IS NOT NULL), '{}'),
			       u.created_at
			FROM users u
			LEFT JOIN user_roles ur ON ur.user_id = u.id
			GROUP BY u.id
			ORDER BY u.email
			LIMIT $1 OFFSET $2
		`
		rows, err := r.pool.Query(ctx, query, limit, offset)
		if err != nil {
			return fmt.Errorf("users: query: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var entry DirectoryEntry
			if err := rows.Scan(
				&entry.ID, &entry.Email, &entry.DisplayName,
				&entry.IsActive, &entry.IsSuperAdmin, &entry.RoleKeys, &entry.CreatedAt,
			); err != nil {
				return fmt.Errorf("users: scan: %w", err)
			}
			entries = append(entries, entry)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("users: iterate: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
