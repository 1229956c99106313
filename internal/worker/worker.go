// Package worker runs store scans in the background: once at start, on a
// fixed interval, on explicit refresh requests and, optionally, when the
// outputs tree changes on disk.
package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/logging"
	"github.com/dmitrijs2005/cvtrack/internal/store"
	"github.com/fsnotify/fsnotify"
)

// Scanner is the part of the store the worker drives.
type Scanner interface {
	Scan(ctx context.Context, root string) (store.ScanReport, error)
}

type Config struct {
	Root     string
	Interval time.Duration // zero disables periodic scans
	Watch    bool
	Debounce time.Duration
}

type Worker struct {
	scanner Scanner
	cfg     Config
	log     logging.Logger
	refresh chan struct{}
}

func New(s Scanner, cfg Config, log logging.Logger) *Worker {
	if log == nil {
		log = logging.Nop()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	return &Worker{
		scanner: s,
		cfg:     cfg,
		log:     log.With("component", "worker"),
		refresh: make(chan struct{}, 1),
	}
}

// RequestRefresh asks for a scan as soon as the current one, if any, is
// done. Requests made while one is already pending are merged.
func (w *Worker) RequestRefresh() {
	select {
	case w.refresh <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled. A scan in progress always completes.
func (w *Worker) Run(ctx context.Context) error {
	w.scan(ctx, "startup")

	var tick <-chan time.Time
	if w.cfg.Interval > 0 {
		ticker := time.NewTicker(w.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var (
		events   <-chan fsnotify.Event
		errs     <-chan error
		watcher  *fsnotify.Watcher
		debounce *time.Timer
		fire     <-chan time.Time
	)
	if w.cfg.Watch {
		var err error
		watcher, err = w.watch()
		if err != nil {
			w.log.Warn(ctx, "filesystem watch disabled", "root", w.cfg.Root, "error", err)
		} else {
			defer watcher.Close()
			events, errs = watcher.Events, watcher.Errors
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case <-tick:
			w.scan(ctx, "interval")

		case <-w.refresh:
			w.scan(ctx, "refresh")

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			w.track(watcher, ev)
			if debounce == nil {
				debounce = time.NewTimer(w.cfg.Debounce)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(w.cfg.Debounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			w.scan(ctx, "filesystem")

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.log.Warn(ctx, "filesystem watch error", "error", err)
		}
	}
}

func (w *Worker) scan(ctx context.Context, reason string) {
	report, err := w.scanner.Scan(context.WithoutCancel(ctx), w.cfg.Root)
	if err != nil {
		w.log.Error(ctx, "background scan failed", "reason", reason, "scan_id", report.ID, "error", err)
		return
	}
	w.log.Debug(ctx, "background scan done", "reason", reason, "scan_id", report.ID, "changed", report.Changed())
}

// watch watches the outputs root and every date folder under it. Company
// folders are not watched; their creation shows up as an event in the date
// folder.
func (w *Worker) watch() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(w.cfg.Root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	entries, err := os.ReadDir(w.cfg.Root)
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() && strings.Contains(e.Name(), "-") {
			_ = watcher.Add(filepath.Join(w.cfg.Root, e.Name()))
		}
	}
	return watcher, nil
}

// track starts watching date folders created after startup.
func (w *Worker) track(watcher *fsnotify.Watcher, ev fsnotify.Event) {
	if watcher == nil || !ev.Has(fsnotify.Create) {
		return
	}
	if filepath.Dir(ev.Name) != filepath.Clean(w.cfg.Root) || !strings.Contains(filepath.Base(ev.Name), "-") {
		return
	}
	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		if err := watcher.Add(ev.Name); err != nil && !errors.Is(err, os.ErrNotExist) {
			w.log.Warn(context.Background(), "cannot watch date folder", "path", ev.Name, "error", err)
		}
	}
}
