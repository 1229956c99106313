package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/common"
	"github.com/dmitrijs2005/cvtrack/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_NewRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme Corp", Country: "Denmark"})
	require.NoError(t, err)
	assert.Equal(t, "17-02-26_Acme_Corp", id)

	all := f.store.GetAll()
	require.Len(t, all, 1)
	want := models.Application{
		ID:            id,
		Date:          "17-02-26",
		Company:       "Acme Corp",
		FolderDate:    "17-02-26",
		FolderName:    "Acme_Corp",
		Country:       "Denmark",
		Status:        models.StatusUnknown,
		LastUpdated:   f.clock.Now(),
		SchemaVersion: models.SchemaVersion,
	}
	if diff := cmp.Diff(want, all[0]); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestAdd_IDIsAFunctionOfDateAndCompany(t *testing.T) {
	tests := []struct {
		date, company, want string
	}{
		{date: "17-02-26", company: "Acme Corp", want: "17-02-26_Acme_Corp"},
		{date: "01-12-25", company: "Café Noir", want: "01-12-25_Cafe_Noir"},
		{date: "05-05-26", company: "A/B Co.", want: "05-05-26_AB_Co"},
		{date: "05-05-26", company: "  Padded  ", want: "05-05-26_Padded"},
	}
	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			first, err := f.store.Add(ctx, AddParams{Date: tt.date, Company: tt.company})
			require.NoError(t, err)
			second, err := f.store.Add(ctx, AddParams{Date: tt.date, Company: tt.company, Status: models.StatusRejected})
			require.NoError(t, err)

			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, second)
			all := f.store.GetAll()
			require.Len(t, all, 1)
			assert.Equal(t, models.StatusRejected, all[0].Status, "last add wins")
		})
	}
}

func TestAdd_ManualSetsOverrideFlags(t *testing.T) {
	f := newFixture(t)

	id, err := f.store.Add(context.Background(), AddParams{
		Date: "17-02-26", Company: "Acme", Country: "Spain", Status: models.StatusInProcess,
		Manual: true, RoleTitle: "Data Analyst",
	})
	require.NoError(t, err)

	a, ok := f.store.Get(id)
	require.True(t, ok)
	assert.True(t, a.Manual)
	assert.True(t, a.CountryManual)
	assert.True(t, a.StatusManual)
	assert.Equal(t, "Data Analyst", a.RoleTitle)
}

func TestAdd_PreservesCVFoundAndUndeletes(t *testing.T) {
	root := t.TempDir()
	f := newFixture(t)
	ctx := context.Background()

	mkOutput(t, root, "17-02-26", "Acme_Corp", "Jane_CV_Denmark.pdf")
	_, err := f.store.Scan(ctx, root)
	require.NoError(t, err)
	a, ok := f.store.Get("17-02-26_Acme_Corp")
	require.True(t, ok)
	require.True(t, a.CVFound)

	id, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme Corp"})
	require.NoError(t, err)
	a, _ = f.store.Get(id)
	assert.True(t, a.CVFound, "cvFound carries over from the previous record")

	require.NoError(t, f.store.Delete(ctx, id))
	require.True(t, f.store.IsDeleted(id))

	_, err = f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme Corp"})
	require.NoError(t, err)
	assert.False(t, f.store.IsDeleted(id))
	a, ok = f.store.Get(id)
	require.True(t, ok)
	assert.False(t, a.CVFound, "a deleted record has nothing to carry over")
}

func TestAdd_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "   "})
	require.ErrorIs(t, err, common.ErrEmptyCompany)

	_, err = f.store.Add(ctx, AddParams{Date: "2026-02-17", Company: "Acme"})
	require.ErrorIs(t, err, common.ErrInvalidDate)

	_, err = f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme", Status: "Ghosted"})
	require.ErrorIs(t, err, common.ErrInvalidStatus)

	assert.Empty(t, f.store.GetAll())
}

func TestRename_SameIDRefreshesDefaultFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme Corp"})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)

	// Punctuation is dropped by the slug, so both names share an id.
	got, err := f.store.Rename(ctx, id, "17-02-26", "Acme Corp.")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	a, _ := f.store.Get(id)
	assert.Equal(t, "Acme Corp.", a.Company)
	assert.Equal(t, "Acme_Corp", a.FolderName)
	assert.Equal(t, f.clock.Now(), a.LastUpdated)
}

func TestRename_SameIDKeepsCustomFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme Corp"})
	require.NoError(t, err)
	require.NoError(t, f.store.UpdateField(ctx, id, models.FieldFolderName, "acme-custom"))

	_, err = f.store.Rename(ctx, id, "17-02-26", "Acme Corp!")
	require.NoError(t, err)

	a, _ := f.store.Get(id)
	assert.Equal(t, "acme-custom", a.FolderName)
}

func TestRename_MovesRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme Corp", Country: "Denmark"})
	require.NoError(t, err)
	require.NoError(t, f.store.Delete(ctx, "18-02-26_Acme_Corp"))
	f.clock.Advance(time.Minute)

	newID, err := f.store.Rename(ctx, id, "18-02-26", "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "18-02-26_Acme_Corp", newID)

	_, ok := f.store.Get(id)
	assert.False(t, ok)
	a, ok := f.store.Get(newID)
	require.True(t, ok)
	assert.Equal(t, "18-02-26", a.Date)
	assert.Equal(t, "Denmark", a.Country)
	assert.Equal(t, f.clock.Now(), a.LastUpdated)
	assert.False(t, f.store.IsDeleted(newID), "the new id must not stay masked")
	assert.False(t, f.store.IsDeleted(id))

	f.reopen()
	_, ok = f.store.Get(newID)
	assert.True(t, ok, "rename is persisted")
	assert.Len(t, f.store.GetAll(), 1)
}

func TestRename_Conflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acme, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme Corp"})
	require.NoError(t, err)
	other, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Other"})
	require.NoError(t, err)
	before := f.store.GetAll()

	got, err := f.store.Rename(ctx, other, "17-02-26", "Acme Corp")
	require.ErrorIs(t, err, common.ErrRenameConflict)
	assert.Equal(t, other, got, "the original id is returned")
	assert.Equal(t, before, f.store.GetAll())
	_, ok := f.store.Get(acme)
	assert.True(t, ok)
}

func TestRename_NotFound(t *testing.T) {
	f := newFixture(t)

	got, err := f.store.Rename(context.Background(), "nope", "17-02-26", "Acme")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "nope", got)
}

func TestUpdateField_Status(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme"})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	require.NoError(t, f.store.UpdateField(ctx, id, models.FieldStatus, "Rejected"))
	a, _ := f.store.Get(id)
	assert.Equal(t, models.StatusRejected, a.Status)
	assert.True(t, a.StatusManual)
	assert.Equal(t, f.clock.Now(), a.LastUpdated)

	f.clock.Advance(time.Hour)
	require.NoError(t, f.store.UpdateStatus(ctx, id, models.StatusRejected))
	a, _ = f.store.Get(id)
	assert.Equal(t, f.clock.Now(), a.LastUpdated, "identical edits are still timestamped")
}

func TestUpdateField_CountryAndRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme"})
	require.NoError(t, err)

	require.NoError(t, f.store.UpdateField(ctx, id, models.FieldCountry, "Norway"))
	require.NoError(t, f.store.UpdateField(ctx, id, models.FieldRoleTitle, "SRE"))

	a, _ := f.store.Get(id)
	assert.Equal(t, "Norway", a.Country)
	assert.True(t, a.CountryManual)
	assert.False(t, a.StatusManual)
	assert.Equal(t, "SRE", a.RoleTitle)
	assert.Equal(t, id, a.ID, "plain updates never change the id")
}

func TestUpdateField_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.store.UpdateField(ctx, "missing", models.FieldStatus, "Rejected")
	require.ErrorIs(t, err, common.ErrNotFound)

	id, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme"})
	require.NoError(t, err)

	require.ErrorIs(t, f.store.UpdateField(ctx, id, models.FieldStatus, "Hired"), common.ErrInvalidStatus)
	require.ErrorIs(t, f.store.UpdateField(ctx, id, models.Field("company"), "X"), common.ErrInvalidField)
}

func TestDelete_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme"})
	require.NoError(t, err)

	require.NoError(t, f.store.Delete(ctx, id))
	writes := f.backend.writes.Load()
	require.NoError(t, f.store.Delete(ctx, id))
	require.NoError(t, f.store.Delete(ctx, "never-existed"))

	assert.Empty(t, f.store.GetAll())
	assert.Equal(t, []string{id, "never-existed"}, f.store.DeletedIDs())
	assert.Equal(t, writes+1, f.backend.writes.Load(), "re-deleting a deleted id writes nothing")
}

func TestPersistFailure_LeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme"})
	require.NoError(t, err)
	before := f.store.GetAll()

	f.backend.fail.Store(true)

	_, err = f.store.Add(ctx, AddParams{Date: "18-02-26", Company: "Other"})
	require.ErrorIs(t, err, errDiskFull)
	require.ErrorIs(t, f.store.UpdateField(ctx, id, models.FieldCountry, "Spain"), errDiskFull)
	_, err = f.store.Rename(ctx, id, "19-02-26", "Acme")
	require.ErrorIs(t, err, errDiskFull)
	require.ErrorIs(t, f.store.Delete(ctx, id), errDiskFull)

	assert.Equal(t, before, f.store.GetAll())
	assert.Empty(t, f.store.DeletedIDs())
}

func TestState_SurvivesReopen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keep, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme", Country: "UK", Manual: true})
	require.NoError(t, err)
	gone, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Gone"})
	require.NoError(t, err)
	require.NoError(t, f.store.Delete(ctx, gone))
	before := f.store.GetAll()

	f.reopen()

	after := f.store.GetAll()
	require.Len(t, after, 1)
	assert.Equal(t, keep, after[0].ID)
	assert.True(t, before[0].LastUpdated.Equal(after[0].LastUpdated))
	assert.True(t, f.store.IsDeleted(gone))
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for _, a := range f.store.GetAll() {
					if a.ID == "" || a.Company == "" {
						t.Errorf("partially written record observed: %+v", a)
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		id, err := f.store.Add(ctx, AddParams{Date: "17-02-26", Company: "Acme"})
		require.NoError(t, err)
		require.NoError(t, f.store.UpdateStatus(ctx, id, models.StatusFollowedUp))
	}
	close(stop)
	wg.Wait()
}
