package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kivaw/kivaw/internal/platform/db"
)

var (
	ErrNotFound = errors.New("content: item not found")
)

// Repository persists catalog items.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context, req ListItemsRequest) ([]Item, int, error)
	Create(ctx context.Context, item Item) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	q    querier
	pool *pgxpool.Pool
}

// querier abstracts pool vs transaction execution.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (commandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type commandTag = interface{ RowsAffected() int64 }

type poolQuerier struct {
	pool *pgxpool.Pool
}

func (p poolQuerier) Exec(ctx context.Context, sql string, args ...any) (commandTag, error) {
	tag, err := p.pool.Exec(ctx, sql, args...)
	return tag, err
}

func (p poolQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

func (p poolQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

type txQuerier struct {
	tx pgx.Tx
}

func (t txQuerier) Exec(ctx context.Context, sql string, args ...any) (commandTag, error) {
	tag, err := t.tx.Exec(ctx, sql, args...)
	return tag, err
}

func (t txQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.tx.Query(ctx, sql, args...)
}

func (t txQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.tx.QueryRow(ctx, sql, args...)
}

// NewRepository constructs the Postgres-backed item repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{q: poolQuerier{pool: pool}, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{q: txQuerier{tx: tx}, pool: r.pool})
	})
}

const itemColumns = `id, title, kind, mood, tags, duration_minutes, cost_level, intensity, url, is_published, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Item, error) {
	query := fmt.Sprintf("SELECT %s FROM content_items WHERE id = $1", itemColumns)
	item, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *repository) List(ctx context.Context, req ListItemsRequest) ([]Item, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.Mood != nil {
		conditions = append(conditions, fmt.Sprintf("mood = $%d", argPos))
		args = append(args, *req.Mood)
		argPos++
	}
	if req.IsPublished != nil {
		conditions = append(conditions, fmt.Sprintf("is_published = $%d", argPos))
		args = append(args, *req.IsPublished)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argPos))
		args = append(args, "%"+*req.Search+"%")
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM content_items %s", whereClause)
	var total int
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM content_items
		%s
		ORDER BY title
		LIMIT $%d OFFSET $%d
	`, itemColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) Create(ctx context.Context, item Item) (int64, error) {
	const query = `
		INSERT INTO content_items
			(title, kind, mood, tags, duration_minutes, cost_level, intensity, url, is_published, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var id int64
	err := r.q.QueryRow(ctx, query,
		item.Title, item.Kind, item.Mood, item.Tags,
		item.DurationMinutes, item.CostLevel, item.Intensity,
		item.URL, item.IsPublished, item.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("content: insert item: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	setClause := ""
	args := make([]interface{}, 0, len(updates)+1)
	argPos := 1
	for column, value := range updates {
		if setClause != "" {
			setClause += ", "
		}
		setClause += fmt.Sprintf("%s = $%d", column, argPos)
		args = append(args, value)
		argPos++
	}
	setClause += ", updated_at = now()"
	args = append(args, id)

	query := fmt.Sprintf("UPDATE content_items SET %s WHERE id = $%d", setClause, argPos)
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("content: update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, "DELETE FROM content_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("content: delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var item Item
	if err := row.Scan(
		&item.ID, &item.Title, &item.Kind, &item.Mood, &item.Tags,
		&item.DurationMinutes, &item.CostLevel, &item.Intensity,
		&item.URL, &item.IsPublished, &item.CreatedBy,
		&item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
