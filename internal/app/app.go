// Package app wires configuration, logging, storage and the services built
// on the record store into one lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/config"
	"github.com/dmitrijs2005/cvtrack/internal/generator"
	"github.com/dmitrijs2005/cvtrack/internal/logging"
	"github.com/dmitrijs2005/cvtrack/internal/metrics"
	"github.com/dmitrijs2005/cvtrack/internal/storage"
	"github.com/dmitrijs2005/cvtrack/internal/store"
	"github.com/dmitrijs2005/cvtrack/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Options carries process-level dependencies that tests replace.
type Options struct {
	LogOut io.Writer
	Now    func() time.Time
}

type App struct {
	Config    *config.Config
	Log       logging.Logger
	Store     *store.Store
	Worker    *worker.Worker
	Generator *generator.Service
	Registry  *prometheus.Registry

	closeLog func() error
}

// New opens the database and the store described by cfg.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	log, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Dir:    cfg.LogDir,
		Out:    opts.LogOut,
		Now:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open database: %w", err)
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	st, err := store.Open(ctx, db, store.Options{
		Logger:            log,
		Now:               now,
		Matcher:           cfg.Matcher(),
		LegacyStatsPath:   cfg.LegacyStatsPath,
		LegacyDeletedPath: cfg.LegacyDeletedPath,
		MirrorPath:        cfg.MirrorPath,
		Observer:          collector,
	})
	if err != nil {
		_ = db.Close()
		_ = closeLog()
		return nil, fmt.Errorf("open store: %w", err)
	}
	metrics.RegisterStoreGauges(reg, st)

	w := worker.New(st, worker.Config{
		Root:     cfg.OutputsDir,
		Interval: cfg.ScanInterval,
		Watch:    cfg.WatchOutputs,
		Debounce: cfg.WatchDebounce,
	}, log)

	gen := generator.NewService(generator.NewTemplateGenerator(), st, generator.Config{
		OutputsDir:          cfg.OutputsDir,
		CandidateName:       cfg.CandidateName,
		CVTemplate:          cfg.CVTemplate,
		CoverLetterTemplate: cfg.CoverLetterTemplate,
	}, log, now)

	log.Debug(ctx, "app ready", "data_dir", cfg.DataDir, "database", cfg.DatabasePath, "outputs", cfg.OutputsDir)

	return &App{
		Config:    cfg,
		Log:       log,
		Store:     st,
		Worker:    w,
		Generator: gen,
		Registry:  reg,
		closeLog:  closeLog,
	}, nil
}

// RunBackground runs the scan worker and, when configured, the metrics
// endpoint until ctx is cancelled or one of them fails.
func (a *App) RunBackground(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Worker.Run(gCtx)
	})

	if a.Config.MetricsAddr != "" {
		g.Go(func() error {
			a.Log.Info(gCtx, "metrics endpoint listening", "addr", a.Config.MetricsAddr)
			if err := metrics.Serve(gCtx, a.Config.MetricsAddr, metrics.NewRouter(a.Registry)); err != nil {
				return fmt.Errorf("metrics endpoint: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Scan runs one pass over the configured outputs root.
func (a *App) Scan(ctx context.Context) (store.ScanReport, error) {
	return a.Store.Scan(ctx, a.Config.OutputsDir)
}

// Close releases the store, the database and the log file.
func (a *App) Close() error {
	return errors.Join(a.Store.Close(), a.closeLog())
}
