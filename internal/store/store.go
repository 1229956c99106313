// Package store is the application record store. It owns the live record
// set and the deleted-id set, persists both in SQLite and reconciles them
// against the generated outputs tree.
//
// Reads are served from an in-memory snapshot. Mutations are serialised by
// a single writer lock, persisted in one transaction, and only then applied
// to the snapshot, so readers see either the state before a batch or after
// it.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dmitrijs2005/cvtrack/internal/countries"
	"github.com/dmitrijs2005/cvtrack/internal/logging"
	"github.com/dmitrijs2005/cvtrack/internal/mirror"
	"github.com/dmitrijs2005/cvtrack/internal/models"
	"github.com/dmitrijs2005/cvtrack/internal/repositories/metadata"
	"github.com/dmitrijs2005/cvtrack/internal/storage"
)

// ScanObserver is notified after every scan pass.
type ScanObserver interface {
	ObserveScan(r ScanReport, err error)
}

// Options configures a Store. Zero values select sensible defaults.
type Options struct {
	Logger  logging.Logger
	Now     func() time.Time
	Matcher *countries.Matcher

	// LegacyStatsPath and LegacyDeletedPath locate the JSON files imported
	// once into an empty database.
	LegacyStatsPath   string
	LegacyDeletedPath string

	// MirrorPath, when set, receives a fresh export after every committed
	// batch.
	MirrorPath string

	Observer ScanObserver
}

type Store struct {
	backend    storage.Backend
	log        logging.Logger
	now        func() time.Time
	matcher    *countries.Matcher
	mirrorPath string
	observer   ScanObserver

	// writeMu serialises every mutation including whole scan passes.
	writeMu sync.Mutex

	// mu guards the snapshot below.
	mu      sync.RWMutex
	records map[string]models.Application
	deleted mapset.Set[string]
}

// Open loads the persisted state from backend, importing the legacy files
// on first run and backfilling records written by older layouts.
func Open(ctx context.Context, backend storage.Backend, opts Options) (*Store, error) {
	s := &Store{
		backend:    backend,
		log:        opts.Logger,
		now:        opts.Now,
		matcher:    opts.Matcher,
		mirrorPath: opts.MirrorPath,
		observer:   opts.Observer,
		records:    make(map[string]models.Application),
		deleted:    mapset.NewThreadUnsafeSet[string](),
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.matcher == nil {
		s.matcher = countries.NewMatcher(nil, nil)
	}

	var (
		apps     []models.Application
		deleted  []string
		imported bool
	)
	err := backend.Read(ctx, func(ctx context.Context, r storage.Repositories) error {
		var err error
		if apps, err = r.Applications.List(ctx); err != nil {
			return err
		}
		if deleted, err = r.Tombstones.List(ctx); err != nil {
			return err
		}
		marker, err := r.Metadata.Get(ctx, metadata.KeyLegacyImported)
		imported = marker != nil
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}

	if len(apps) == 0 && len(deleted) == 0 && !imported {
		if apps, deleted, err = s.importLegacy(ctx, opts.LegacyStatsPath, opts.LegacyDeletedPath); err != nil {
			return nil, err
		}
	} else if err := s.backfill(ctx, apps); err != nil {
		return nil, err
	}

	for _, id := range deleted {
		s.deleted.Add(id)
	}
	for _, a := range apps {
		if s.deleted.Contains(a.ID) {
			s.log.Warn(ctx, "ignoring persisted record that is marked deleted", "id", a.ID)
			continue
		}
		s.records[a.ID] = a
	}

	s.log.Info(ctx, "store opened", "records", len(s.records), "deleted", s.deleted.Cardinality())
	return s, nil
}

// backfill migrates records in place and persists the ones that changed.
func (s *Store) backfill(ctx context.Context, apps []models.Application) error {
	cs := newChangeSet()
	for i := range apps {
		if models.Migrate(&apps[i]) {
			cs.upsert(apps[i])
		}
	}
	if cs.empty() {
		return nil
	}
	if err := s.persist(ctx, cs); err != nil {
		return fmt.Errorf("backfill records: %w", err)
	}
	s.log.Info(ctx, "backfilled records", "count", len(cs.upserts))
	return nil
}

func (s *Store) importLegacy(ctx context.Context, statsPath, deletedPath string) ([]models.Application, []string, error) {
	if statsPath == "" && deletedPath == "" {
		return nil, nil, nil
	}
	legacy, err := mirror.ReadLegacy(statsPath, deletedPath, time.Local)
	if err != nil {
		// A broken legacy file must not block startup; it is retried on the
		// next start because no import marker is written.
		s.log.Warn(ctx, "legacy import skipped", "path", statsPath, "error", err)
		return nil, nil, nil
	}
	if legacy.Empty() {
		return nil, nil, nil
	}

	dead := mapset.NewThreadUnsafeSet[string](legacy.DeletedIDs...)
	cs := newChangeSet()
	apps := make([]models.Application, 0, len(legacy.Applications))
	for _, a := range legacy.Applications {
		if a.ID == "" || dead.Contains(a.ID) {
			continue
		}
		models.Migrate(&a)
		cs.upsert(a)
		apps = append(apps, a)
	}
	cs.deleted = append(cs.deleted, legacy.DeletedIDs...)
	cs.meta[metadata.KeyLegacyImported] = s.now()

	if err := s.persist(ctx, cs); err != nil {
		return nil, nil, fmt.Errorf("import legacy stats: %w", err)
	}
	s.log.Info(ctx, "imported legacy stats", "records", len(apps), "deleted", len(legacy.DeletedIDs), "path", statsPath)
	return apps, legacy.DeletedIDs, nil
}

// GetAll returns the live records ordered by id.
func (s *Store) GetAll() []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Application, 0, len(s.records))
	for id, a := range s.records {
		if s.deleted.Contains(id) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the live record with id.
func (s *Store) Get(id string) (models.Application, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.records[id]
	if !ok || s.deleted.Contains(id) {
		return models.Application{}, false
	}
	return a, true
}

// Count returns the number of live records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// DeletedIDs returns the deleted-id set, sorted.
func (s *Store) DeletedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.deleted.ToSlice()
	sort.Strings(ids)
	return ids
}

// IsDeleted reports whether id is in the deleted-id set.
func (s *Store) IsDeleted(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deleted.Contains(id)
}

// Export builds a mirror document of the current state.
func (s *Store) Export() mirror.Document {
	return mirror.Build(s.GetAll(), s.DeletedIDs(), s.now())
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
