// Package models defines the application record tracked by the store and the
// small closed vocabularies (statuses, editable fields) around it.
package models

import (
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/slug"
)

// DateLayout is the on-disk and in-record format of an application date
// (day-month-two digit year), e.g. "17-02-26".
const DateLayout = "02-01-06"

// CountryUnknown is the placeholder country used until one is inferred or set.
const CountryUnknown = "Unknown"

// Application is one tracked job application.
type Application struct {
	// ID is derived from Date and Company by slug.ID. Only a rename may change it.
	ID string

	// Date is the application date in DateLayout.
	Date string

	// Company is the display name.
	Company string

	// FolderDate and FolderName locate the record folder on disk:
	// <outputs root>/<FolderDate>/<FolderName>. A rename keeps both, so the
	// record stays attached to the documents generated for it.
	FolderDate string
	FolderName string

	Country string
	// CountryManual is set once a user edits the country; scans never touch
	// Country afterwards.
	CountryManual bool

	RoleTitle string

	Status       Status
	StatusManual bool

	// Manual marks records created by explicit entry rather than discovered
	// from a generated-documents folder.
	Manual bool

	// CVFound reports whether a CV document is present in the record folder.
	CVFound bool

	// LastUpdated is the time of the last effective mutation.
	LastUpdated time.Time

	// SchemaVersion is the record layout version the row was written with.
	SchemaVersion int
}

// Folder returns the company folder segment, falling back to the default slug
// of Company when FolderName is unset.
func (a Application) Folder() string {
	if a.FolderName != "" {
		return a.FolderName
	}
	return slug.DefaultFolder(a.Company)
}

// FolderDay returns the date folder segment, falling back to Date when
// FolderDate is unset.
func (a Application) FolderDay() string {
	if a.FolderDate != "" {
		return a.FolderDate
	}
	return a.Date
}

// HasManualMarkers reports whether the record carries user-entered data that
// a scan must preserve even when the backing folder is gone.
func (a Application) HasManualMarkers() bool {
	return a.Manual || a.CountryManual || a.StatusManual || a.RoleTitle != ""
}

// ParsedDate parses Date with DateLayout.
func (a Application) ParsedDate() (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, a.Date, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CountryKnown reports whether Country holds a real value.
func (a Application) CountryKnown() bool {
	return a.Country != "" && a.Country != CountryUnknown
}
