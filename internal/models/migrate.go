package models

import (
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/slug"
)

// SchemaVersion is the current record layout version.
const SchemaVersion = 2

// LegacyEpoch is the far-past timestamp given to records that never carried
// a last-updated value.
var LegacyEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Migrate backfills fields missing from records written by older layouts and
// stamps the current schema version. It reports whether anything changed.
func Migrate(a *Application) bool {
	changed := false

	if a.LastUpdated.IsZero() {
		a.LastUpdated = LegacyEpoch
		changed = true
	}
	if a.FolderDate == "" {
		a.FolderDate = a.Date
		changed = true
	}
	if a.FolderName == "" {
		a.FolderName = slug.DefaultFolder(a.Company)
		changed = true
	}
	if !a.Status.Valid() {
		a.Status = StatusUnknown
		changed = true
	}
	if a.SchemaVersion < SchemaVersion {
		a.SchemaVersion = SchemaVersion
		changed = true
	}

	return changed
}
