package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/storage"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// countingBackend counts write transactions and can be told to fail them.
type countingBackend struct {
	storage.Backend
	writes atomic.Int32
	fail   atomic.Bool
}

func (b *countingBackend) Write(ctx context.Context, fn func(ctx context.Context, r storage.Repositories) error) error {
	if b.fail.Load() {
		return errDiskFull
	}
	b.writes.Add(1)
	return b.Backend.Write(ctx, fn)
}

type fixture struct {
	t       *testing.T
	dbPath  string
	backend *countingBackend
	clock   *clock
	store   *Store
	opts    Options
}

func newFixture(t *testing.T, mutate ...func(*Options)) *fixture {
	t.Helper()
	f := &fixture{
		t:      t,
		dbPath: filepath.Join(t.TempDir(), "cvtrack.db"),
		clock:  newClock(),
	}
	f.opts = Options{Now: f.clock.Now}
	for _, m := range mutate {
		m(&f.opts)
	}
	f.reopen()
	return f
}

// reopen closes the current store, if any, and opens a fresh one over the
// same database file.
func (f *fixture) reopen() {
	f.t.Helper()
	if f.store != nil {
		require.NoError(f.t, f.store.Close())
	}
	db, err := storage.Open(context.Background(), f.dbPath)
	require.NoError(f.t, err)
	f.backend = &countingBackend{Backend: db}
	f.store, err = Open(context.Background(), f.backend, f.opts)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { _ = db.Close() })
}

// mkOutput creates root/<date>/<company> with the given files.
func mkOutput(t *testing.T, root, date, company string, files ...string) string {
	t.Helper()
	dir := filepath.Join(root, date, company)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644))
	}
	return dir
}
