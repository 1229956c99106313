package tombstones

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM deleted_applications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deleted ids: %w", err)
	}
	return ids, nil
}

// Add records id as deleted. Deleting an already deleted id keeps the first
// deletion time.
func (r *SQLiteRepository) Add(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO deleted_applications (id, deleted_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
		id, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to mark %s deleted: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM deleted_applications WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to undelete %s: %w", id, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deleted_applications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count deleted ids: %w", err)
	}
	return n, nil
}
