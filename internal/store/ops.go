package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/common"
	"github.com/dmitrijs2005/cvtrack/internal/models"
	"github.com/dmitrijs2005/cvtrack/internal/slug"
)

// AddParams describes an application registered explicitly, either by the
// user or by the generation flow.
type AddParams struct {
	Date      string
	Company   string
	Country   string
	Status    models.Status
	Manual    bool
	RoleTitle string
}

func validateIdentity(date, company string) (string, string, error) {
	date = strings.TrimSpace(date)
	company = strings.TrimSpace(company)
	if company == "" {
		return "", "", common.ErrEmptyCompany
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return "", "", fmt.Errorf("%w: %q", common.ErrInvalidDate, date)
	}
	return date, company, nil
}

// Add creates or overwrites the record for (Date, Company) and returns its
// id. An explicit add takes the id out of the deleted set.
func (s *Store) Add(ctx context.Context, p AddParams) (string, error) {
	date, company, err := validateIdentity(p.Date, p.Company)
	if err != nil {
		return "", err
	}
	status := p.Status
	if status == "" {
		status = models.StatusUnknown
	}
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidStatus, status)
	}
	country := strings.TrimSpace(p.Country)
	if country == "" {
		country = models.CountryUnknown
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id := slug.ID(date, company)
	prev, _ := s.Get(id)

	a := models.Application{
		ID:            id,
		Date:          date,
		Company:       company,
		FolderDate:    date,
		FolderName:    slug.DefaultFolder(company),
		Country:       country,
		CountryManual: p.Manual,
		RoleTitle:     strings.TrimSpace(p.RoleTitle),
		Status:        status,
		StatusManual:  p.Manual,
		Manual:        p.Manual,
		CVFound:       prev.CVFound,
		LastUpdated:   s.now(),
		SchemaVersion: models.SchemaVersion,
	}

	cs := newChangeSet()
	cs.upsert(a)
	if s.IsDeleted(id) {
		cs.undeleted = append(cs.undeleted, id)
	}
	if err := s.commit(ctx, cs); err != nil {
		return "", fmt.Errorf("add %s: %w", id, err)
	}

	s.log.Info(ctx, "application added", "id", id, "manual", p.Manual)
	return id, nil
}

// Rename changes the date and company of a record, which may change its id.
// It returns the id the record lives under afterwards. When the new id is
// held by another live record it returns the original id and
// common.ErrRenameConflict, and nothing changes.
func (s *Store) Rename(ctx context.Context, id, newDate, newCompany string) (string, error) {
	date, company, err := validateIdentity(newDate, newCompany)
	if err != nil {
		return id, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur, ok := s.Get(id)
	if !ok {
		return id, fmt.Errorf("rename %s: %w", id, common.ErrNotFound)
	}

	newID := slug.ID(date, company)
	cs := newChangeSet()
	next := cur
	next.Date = date
	next.Company = company
	next.LastUpdated = s.now()

	if newID == id {
		if cur.FolderName == slug.DefaultFolder(cur.Company) {
			next.FolderName = slug.DefaultFolder(company)
		}
		cs.upsert(next)
	} else {
		if _, taken := s.Get(newID); taken {
			return id, fmt.Errorf("rename %s to %s: %w", id, newID, common.ErrRenameConflict)
		}
		next.ID = newID
		next.FolderDate = cur.FolderDay()
		cs.remove(id)
		cs.upsert(next)
		for _, x := range []string{id, newID} {
			if s.IsDeleted(x) {
				cs.undeleted = append(cs.undeleted, x)
			}
		}
	}

	if err := s.commit(ctx, cs); err != nil {
		return id, fmt.Errorf("rename %s: %w", id, err)
	}

	s.log.Info(ctx, "application renamed", "id", id, "new_id", newID)
	return newID, nil
}

// UpdateField sets one editable field. Editing the country or status marks
// it as manually set. The timestamp is refreshed even when the value does
// not change.
func (s *Store) UpdateField(ctx context.Context, id string, field models.Field, value string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	a, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("update %s: %w", id, common.ErrNotFound)
	}

	value = strings.TrimSpace(value)
	switch field {
	case models.FieldCountry:
		if value == "" {
			value = models.CountryUnknown
		}
		a.Country = value
		a.CountryManual = true
	case models.FieldStatus:
		st, err := models.ParseStatus(value)
		if err != nil {
			return err
		}
		a.Status = st
		a.StatusManual = true
	case models.FieldRoleTitle:
		a.RoleTitle = value
	case models.FieldFolderName:
		// An empty value points the record back at its default location.
		if value == "" {
			value = slug.DefaultFolder(a.Company)
			a.FolderDate = a.Date
		}
		a.FolderName = value
	default:
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}
	a.LastUpdated = s.now()

	cs := newChangeSet()
	cs.upsert(a)
	if err := s.commit(ctx, cs); err != nil {
		return fmt.Errorf("update %s: %w", id, err)
	}

	s.log.Debug(ctx, "application updated", "id", id, "field", string(field))
	return nil
}

// UpdateStatus is UpdateField for the status field.
func (s *Store) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	return s.UpdateField(ctx, id, models.FieldStatus, string(status))
}

// Delete soft-deletes id. Deleting an id that is not live is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, live := s.Get(id)
	if !live && s.IsDeleted(id) {
		return nil
	}

	cs := newChangeSet()
	if live {
		cs.remove(id)
	}
	cs.deleted = append(cs.deleted, id)
	if err := s.commit(ctx, cs); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}

	s.log.Info(ctx, "application deleted", "id", id)
	return nil
}
