// Package applications persists application records in SQLite.
package applications

import (
	"context"

	"github.com/dmitrijs2005/cvtrack/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Application, error)
	Upsert(ctx context.Context, a models.Application) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
