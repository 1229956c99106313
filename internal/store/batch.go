package store

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/mirror"
	"github.com/dmitrijs2005/cvtrack/internal/models"
	"github.com/dmitrijs2005/cvtrack/internal/storage"
)

// changeSet is one batch of mutations, persisted in a single transaction and
// then applied to the snapshot.
type changeSet struct {
	upserts   map[string]models.Application
	removed   []string // live rows to drop
	deleted   []string // ids to add to the deleted set
	undeleted []string // ids to take out of the deleted set
	meta      map[string]time.Time
}

func newChangeSet() *changeSet {
	return &changeSet{
		upserts: make(map[string]models.Application),
		meta:    make(map[string]time.Time),
	}
}

func (c *changeSet) upsert(a models.Application) { c.upserts[a.ID] = a }

func (c *changeSet) remove(id string) {
	delete(c.upserts, id)
	c.removed = append(c.removed, id)
}

func (c *changeSet) empty() bool {
	return len(c.upserts) == 0 && len(c.removed) == 0 && len(c.deleted) == 0 &&
		len(c.undeleted) == 0 && len(c.meta) == 0
}

func (s *Store) persist(ctx context.Context, cs *changeSet) error {
	at := s.now()
	return s.backend.Write(ctx, func(ctx context.Context, r storage.Repositories) error {
		for _, id := range cs.removed {
			if err := r.Applications.Delete(ctx, id); err != nil {
				return err
			}
		}
		for _, a := range cs.upserts {
			if err := r.Applications.Upsert(ctx, a); err != nil {
				return err
			}
		}
		for _, id := range cs.deleted {
			if err := r.Tombstones.Add(ctx, id, at); err != nil {
				return err
			}
		}
		if err := r.Tombstones.Remove(ctx, cs.undeleted...); err != nil {
			return err
		}
		for k, t := range cs.meta {
			if err := r.Metadata.SetTime(ctx, k, t); err != nil {
				return err
			}
		}
		return nil
	})
}

// commit persists cs and, on success, applies it to the snapshot and
// refreshes the mirror. Callers hold writeMu. On failure the snapshot is
// left untouched.
func (s *Store) commit(ctx context.Context, cs *changeSet) error {
	if cs.empty() {
		return nil
	}
	if err := s.persist(ctx, cs); err != nil {
		s.log.Error(ctx, "persisting changes failed, in-memory state unchanged", "error", err)
		return err
	}

	s.mu.Lock()
	for _, id := range cs.removed {
		delete(s.records, id)
	}
	for id, a := range cs.upserts {
		s.records[id] = a
	}
	for _, id := range cs.deleted {
		s.deleted.Add(id)
	}
	for _, id := range cs.undeleted {
		s.deleted.Remove(id)
	}
	s.mu.Unlock()

	s.writeMirror(ctx)
	return nil
}

func (s *Store) writeMirror(ctx context.Context) {
	if s.mirrorPath == "" {
		return
	}
	doc := mirror.Build(s.GetAll(), s.DeletedIDs(), s.now())
	if err := mirror.WriteFile(s.mirrorPath, doc); err != nil {
		s.log.Warn(ctx, "mirror export failed", "path", s.mirrorPath, "error", err)
	}
}
