// Package tombstones persists the set of deleted application ids.
package tombstones

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, id string, at time.Time) error
	Remove(ctx context.Context, ids ...string) error
	Count(ctx context.Context) (int, error)
}
