package mirror

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/models"
)

// LegacyTimeLayout is the last_updated format of the legacy stats file.
const LegacyTimeLayout = "2006-01-02 15:04:05"

type legacyEntry struct {
	Date          string `json:"date"`
	Company       string `json:"company"`
	FolderName    string `json:"folder_name"`
	Country       string `json:"country"`
	CountryManual bool   `json:"country_manual"`
	RoleTitle     string `json:"role_title"`
	Status        string `json:"status"`
	StatusManual  bool   `json:"status_manual"`
	Manual        bool   `json:"manual"`
	CVFound       bool   `json:"cv_found"`
	LastUpdated   string `json:"last_updated"`
}

// Legacy is the content of the legacy stats file and its deleted-id sidecar.
type Legacy struct {
	Applications []models.Application
	DeletedIDs   []string
}

// Empty reports whether there is nothing to import.
func (l Legacy) Empty() bool {
	return len(l.Applications) == 0 && len(l.DeletedIDs) == 0
}

// ReadLegacy reads the legacy stats map and the optional deleted-id sidecar.
// Missing files yield an empty result. Records are returned as stored: the
// caller runs models.Migrate to backfill them.
func ReadLegacy(statsPath, deletedPath string, loc *time.Location) (Legacy, error) {
	var out Legacy
	if loc == nil {
		loc = time.Local
	}

	if statsPath != "" {
		b, err := os.ReadFile(statsPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Legacy{}, fmt.Errorf("read legacy stats: %w", err)
		default:
			var raw map[string]legacyEntry
			if err := json.Unmarshal(b, &raw); err != nil {
				return Legacy{}, fmt.Errorf("decode legacy stats: %w", err)
			}
			out.Applications = make([]models.Application, 0, len(raw))
			for id, e := range raw {
				out.Applications = append(out.Applications, fromLegacy(id, e, loc))
			}
			sort.Slice(out.Applications, func(i, j int) bool { return out.Applications[i].ID < out.Applications[j].ID })
		}
	}

	if deletedPath != "" {
		b, err := os.ReadFile(deletedPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Legacy{}, fmt.Errorf("read legacy deleted ids: %w", err)
		default:
			var ids []string
			if err := json.Unmarshal(b, &ids); err != nil {
				return Legacy{}, fmt.Errorf("decode legacy deleted ids: %w", err)
			}
			sort.Strings(ids)
			out.DeletedIDs = ids
		}
	}

	return out, nil
}

func fromLegacy(id string, e legacyEntry, loc *time.Location) models.Application {
	a := models.Application{
		ID:            id,
		Date:          e.Date,
		Company:       e.Company,
		FolderName:    e.FolderName,
		Country:       e.Country,
		CountryManual: e.CountryManual,
		RoleTitle:     e.RoleTitle,
		StatusManual:  e.StatusManual,
		Manual:        e.Manual,
		CVFound:       e.CVFound,
	}
	if a.Country == "" {
		a.Country = models.CountryUnknown
	}
	if st, err := models.ParseStatus(e.Status); err == nil {
		a.Status = st
	} else {
		a.Status = models.StatusUnknown
	}
	if ts := strings.TrimSpace(e.LastUpdated); ts != "" {
		if t, err := time.ParseInLocation(LegacyTimeLayout, ts, loc); err == nil {
			a.LastUpdated = t
		}
	}
	return a
}
