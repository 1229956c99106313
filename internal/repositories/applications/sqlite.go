package applications

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/dbx"
	"github.com/dmitrijs2005/cvtrack/internal/models"
)

// TimeLayout is how timestamps are stored in TEXT columns.
const TimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `id, date, company, folder_date, folder_name, country, country_manual,
	role_title, status, status_manual, manual, cv_found, last_updated, schema_version`

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM applications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var result []models.Application
	for rows.Next() {
		var (
			a       models.Application
			status  string
			updated string
		)
		err := rows.Scan(&a.ID, &a.Date, &a.Company, &a.FolderDate, &a.FolderName, &a.Country, &a.CountryManual,
			&a.RoleTitle, &status, &a.StatusManual, &a.Manual, &a.CVFound, &updated, &a.SchemaVersion)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		a.Status = models.Status(status)
		if a.LastUpdated, err = time.Parse(TimeLayout, updated); err != nil {
			return nil, fmt.Errorf("application %s: bad last_updated %q: %w", a.ID, updated, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate application rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, a models.Application) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO applications (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			company = excluded.company,
			folder_date = excluded.folder_date,
			folder_name = excluded.folder_name,
			country = excluded.country,
			country_manual = excluded.country_manual,
			role_title = excluded.role_title,
			status = excluded.status,
			status_manual = excluded.status_manual,
			manual = excluded.manual,
			cv_found = excluded.cv_found,
			last_updated = excluded.last_updated,
			schema_version = excluded.schema_version
	`, a.ID, a.Date, a.Company, a.FolderDate, a.FolderName, a.Country, a.CountryManual, a.RoleTitle,
		string(a.Status), a.StatusManual, a.Manual, a.CVFound,
		a.LastUpdated.UTC().Format(TimeLayout), a.SchemaVersion)
	if err != nil {
		return fmt.Errorf("failed to upsert application %s: %w", a.ID, err)
	}
	return nil
}

// Delete removes the row for id. A missing row is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete application %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return n, nil
}
