package models

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolder_FallsBackToCompanySlug(t *testing.T) {
	a := Application{Company: "Acme Corp"}
	assert.Equal(t, "Acme_Corp", a.Folder())

	a.FolderName = "acme-custom"
	assert.Equal(t, "acme-custom", a.Folder())
}

func TestHasManualMarkers(t *testing.T) {
	tests := []struct {
		name string
		app  Application
		want bool
	}{
		{name: "none", app: Application{}, want: false},
		{name: "manual", app: Application{Manual: true}, want: true},
		{name: "country manual", app: Application{CountryManual: true}, want: true},
		{name: "status manual", app: Application{StatusManual: true}, want: true},
		{name: "role title", app: Application{RoleTitle: "Analyst"}, want: true},
		{name: "cv found is not a marker", app: Application{CVFound: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.app.HasManualMarkers())
		})
	}
}

func TestParsedDate(t *testing.T) {
	d, ok := Application{Date: "17-02-26"}.ParsedDate()
	require.True(t, ok)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 17, d.Day())

	_, ok = Application{Date: "2026-02-17"}.ParsedDate()
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("in process")
	require.NoError(t, err)
	assert.Equal(t, StatusInProcess, s)

	s, err = ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, s)

	_, err = ParseStatus("Interview")
	assert.True(t, errors.Is(err, common.ErrInvalidStatus))
}

func TestParseField(t *testing.T) {
	f, err := ParseField("Country")
	require.NoError(t, err)
	assert.Equal(t, FieldCountry, f)

	f, err = ParseField("role")
	require.NoError(t, err)
	assert.Equal(t, FieldRoleTitle, f)

	for _, identity := range []string{"id", "date", "company"} {
		_, err := ParseField(identity)
		assert.True(t, errors.Is(err, common.ErrInvalidField), identity)
	}
}

func TestMigrate_BackfillsDefaults(t *testing.T) {
	a := Application{ID: "17-02-26_Acme_Corp", Date: "17-02-26", Company: "Acme Corp", Status: "Applied"}
	require.True(t, Migrate(&a))

	assert.Equal(t, LegacyEpoch, a.LastUpdated)
	assert.Equal(t, "Acme_Corp", a.FolderName)
	assert.Equal(t, "17-02-26", a.FolderDate)
	assert.Equal(t, StatusUnknown, a.Status)
	assert.Equal(t, SchemaVersion, a.SchemaVersion)
	assert.False(t, a.Manual)
	assert.Empty(t, a.RoleTitle)

	assert.False(t, Migrate(&a), "second migration must be a no-op")
}
