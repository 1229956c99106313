// Package mirror writes the versioned human-readable export of the store and
// reads the legacy JSON files the store imports once on first run.
package mirror

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/filex"
	"github.com/dmitrijs2005/cvtrack/internal/models"
)

const (
	Format  = "cvtrack.applications"
	Version = 1
)

// Record is the export shape of an application.
type Record struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"`
	Company       string    `json:"company"`
	FolderDate    string    `json:"folder_date"`
	FolderName    string    `json:"folder_name"`
	Country       string    `json:"country"`
	CountryManual bool      `json:"country_manual"`
	RoleTitle     string    `json:"role_title"`
	Status        string    `json:"status"`
	StatusManual  bool      `json:"status_manual"`
	Manual        bool      `json:"manual"`
	CVFound       bool      `json:"cv_found"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Document is the top-level export object.
type Document struct {
	Format       string    `json:"format"`
	Version      int       `json:"version"`
	ExportedAt   time.Time `json:"exported_at"`
	Applications []Record  `json:"applications"`
	DeletedIDs   []string  `json:"deleted_ids"`
}

// Build assembles an export document. Output is sorted by id so repeated
// exports of the same state are byte-identical apart from ExportedAt.
func Build(apps []models.Application, deleted []string, at time.Time) Document {
	doc := Document{
		Format:       Format,
		Version:      Version,
		ExportedAt:   at.UTC(),
		Applications: make([]Record, 0, len(apps)),
		DeletedIDs:   append(make([]string, 0, len(deleted)), deleted...),
	}
	for _, a := range apps {
		doc.Applications = append(doc.Applications, Record{
			ID:            a.ID,
			Date:          a.Date,
			Company:       a.Company,
			FolderDate:    a.FolderDay(),
			FolderName:    a.FolderName,
			Country:       a.Country,
			CountryManual: a.CountryManual,
			RoleTitle:     a.RoleTitle,
			Status:        string(a.Status),
			StatusManual:  a.StatusManual,
			Manual:        a.Manual,
			CVFound:       a.CVFound,
			LastUpdated:   a.LastUpdated.UTC(),
		})
	}
	sort.Slice(doc.Applications, func(i, j int) bool { return doc.Applications[i].ID < doc.Applications[j].ID })
	sort.Strings(doc.DeletedIDs)
	return doc
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// WriteFile atomically replaces path with the export of doc.
func WriteFile(path string, doc Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return filex.WriteAtomic(path, append(b, '\n'), 0o640)
}
