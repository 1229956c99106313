package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/filex"
	"github.com/dmitrijs2005/cvtrack/internal/logging"
	"github.com/dmitrijs2005/cvtrack/internal/models"
	"github.com/dmitrijs2005/cvtrack/internal/repositories/metadata"
	"github.com/dmitrijs2005/cvtrack/internal/slug"
	"github.com/google/uuid"
)

// ScanReport summarises one reconciliation pass.
type ScanReport struct {
	ID         string
	Root       string
	Updated    int // existing records whose cvFound or country changed
	Discovered int // new records created from folders
	Removed    int // records soft-deleted because their folder vanished
	Skipped    int // entries skipped because of filesystem errors
	Duration   time.Duration
}

// Changed reports whether the pass committed anything.
func (r ScanReport) Changed() bool {
	return r.Updated+r.Discovered+r.Removed > 0
}

// Scan reconciles the store with the outputs tree under root:
// outputsRoot/<date>/<company folder>/<files>.
//
// Existing records are checked first. A record whose folder is gone is
// soft-deleted unless it carries manual data, in which case only cvFound is
// cleared. Records whose folder exists get cvFound refreshed and, while the
// country is unknown and not manual, a country inferred from the CV file
// name. New folders then become new records unless their id is live or
// deleted. All changes are committed as one batch, and nothing is written
// when nothing changed.
//
// A scan is not cancellable once started. Filesystem errors skip the entry
// concerned.
func (s *Store) Scan(ctx context.Context, root string) (report ScanReport, err error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	report = ScanReport{ID: uuid.NewString(), Root: root}
	log := s.log.With("scan_id", report.ID)

	defer func() {
		report.Duration = time.Since(start)
		if s.observer != nil {
			s.observer.ObserveScan(report, err)
		}
	}()

	// The whole pass holds the writer lock: reconcile and discover decide from
	// the live and deleted sets, and an edit landing between the walk and the
	// commit would be overwritten by a batch computed from stale state.
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	info, statErr := os.Stat(root)
	if statErr != nil || !info.IsDir() {
		log.Warn(ctx, "outputs root unavailable, scan skipped", "root", root, "error", statErr)
		return report, nil
	}

	now := s.now()
	cs := newChangeSet()
	live := s.GetAll()

	// claimed holds the <date>/<folder> pairs of records that survive this
	// pass, so discovery does not duplicate a record whose id differs from
	// its folder location.
	claimed := make(map[string]struct{}, len(live))

	for _, a := range live {
		loc := a.FolderDay() + "/" + a.Folder()
		dir := filepath.Join(root, a.FolderDay(), a.Folder())
		next, keep, ok := s.reconcile(ctx, log, a, dir, now)
		if !ok {
			report.Skipped++
			claimed[loc] = struct{}{}
			continue
		}
		if !keep {
			cs.remove(a.ID)
			cs.deleted = append(cs.deleted, a.ID)
			report.Removed++
			continue
		}
		claimed[loc] = struct{}{}
		if next != a {
			cs.upsert(next)
			report.Updated++
		}
	}

	s.discover(ctx, log, root, now, claimed, cs, &report)

	if cs.empty() {
		log.Debug(ctx, "scan finished, nothing changed", "root", root, "skipped", report.Skipped)
		return report, nil
	}
	cs.meta[metadata.KeyLastScan] = now

	if err := s.commit(ctx, cs); err != nil {
		log.Error(ctx, "scan commit failed", "error", err)
		return report, err
	}

	log.Info(ctx, "scan finished",
		"root", root,
		"updated", report.Updated,
		"discovered", report.Discovered,
		"removed", report.Removed,
		"skipped", report.Skipped,
	)
	return report, nil
}

// reconcile checks one live record against its folder. keep is false when
// the record must be soft-deleted; ok is false when the folder could not be
// inspected.
func (s *Store) reconcile(ctx context.Context, log logging.Logger, a models.Application, dir string, now time.Time) (next models.Application, keep, ok bool) {
	next = a

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()):
		if !a.HasManualMarkers() {
			return a, false, true
		}
		if a.CVFound {
			next.CVFound = false
			next.LastUpdated = now
		}
		return next, true, true
	case err != nil:
		log.Warn(ctx, "cannot stat record folder", "id", a.ID, "path", dir, "error", err)
		return a, true, false
	}

	names, err := fileNames(dir)
	if err != nil {
		log.Warn(ctx, "cannot list record folder", "id", a.ID, "path", dir, "error", err)
		return a, true, false
	}

	country, cvFound := s.matcher.Inspect(names)
	changed := false
	if next.CVFound != cvFound {
		next.CVFound = cvFound
		changed = true
	}
	if !next.CountryManual && !next.CountryKnown() && country != "" && country != next.Country {
		next.Country = country
		changed = true
	}
	if changed {
		next.LastUpdated = now
	}
	return next, true, true
}

func (s *Store) discover(ctx context.Context, log logging.Logger, root string, now time.Time, claimed map[string]struct{}, cs *changeSet, report *ScanReport) {
	dates, err := os.ReadDir(root)
	if err != nil {
		log.Warn(ctx, "cannot list outputs root", "root", root, "error", err)
		report.Skipped++
		return
	}

	for _, d := range dates {
		// Date folders are recognised by their separator only.
		if !strings.Contains(d.Name(), "-") {
			continue
		}
		datePath := filepath.Join(root, d.Name())
		if !isDir(datePath) {
			continue
		}
		companies, err := os.ReadDir(datePath)
		if err != nil {
			log.Warn(ctx, "cannot list date folder", "path", datePath, "error", err)
			report.Skipped++
			continue
		}

		for _, c := range companies {
			id := slug.FolderID(d.Name(), c.Name())
			if _, ok := s.Get(id); ok {
				continue
			}
			if s.IsDeleted(id) {
				continue
			}
			if _, ok := cs.upserts[id]; ok {
				continue
			}
			if _, ok := claimed[d.Name()+"/"+c.Name()]; ok {
				continue
			}

			companyPath := filepath.Join(datePath, c.Name())
			if !isDir(companyPath) {
				continue
			}
			names, err := fileNames(companyPath)
			if err != nil {
				log.Warn(ctx, "cannot list company folder", "path", companyPath, "error", err)
				report.Skipped++
				continue
			}

			country, cvFound := s.matcher.Inspect(names)
			if country == "" {
				country = models.CountryUnknown
			}
			created, ok := filex.CreationTime(companyPath)
			if !ok {
				created = now
			}

			cs.upsert(models.Application{
				ID:            id,
				Date:          d.Name(),
				Company:       slug.DisplayName(c.Name()),
				FolderDate:    d.Name(),
				FolderName:    c.Name(),
				Country:       country,
				Status:        models.StatusUnknown,
				CVFound:       cvFound,
				LastUpdated:   created,
				SchemaVersion: models.SchemaVersion,
			})
			report.Discovered++
			log.Debug(ctx, "discovered application", "id", id, "country", country, "cv_found", cvFound)
		}
	}
}

// fileNames lists the regular file names in dir, sorted.
func fileNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
