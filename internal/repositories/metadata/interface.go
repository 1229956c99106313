// Package metadata is a small key/value table for store bookkeeping such as
// the legacy-import marker and the time of the last scan.
package metadata

import (
	"context"
	"time"
)

// Well-known keys.
const (
	KeyLegacyImported = "legacy_imported_at"
	KeyLastScan       = "last_scan_at"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	GetTime(ctx context.Context, key string) (time.Time, bool, error)
	SetTime(ctx context.Context, key string, t time.Time) error
}
