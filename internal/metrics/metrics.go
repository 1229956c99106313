// Package metrics exposes scan and store figures to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records scan outcomes. It implements store.ScanObserver.
type Collector struct {
	scans        *prometheus.CounterVec
	changes      *prometheus.CounterVec
	skipped      prometheus.Counter
	duration     prometheus.Histogram
	lastScanTime prometheus.Gauge
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cvtrack_scans_total",
			Help: "Scan passes by result.",
		}, []string{"result"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cvtrack_scan_changes_total",
			Help: "Records changed by scans, by kind of change.",
		}, []string{"kind"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cvtrack_scan_skipped_entries_total",
			Help: "Filesystem entries skipped because of errors.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cvtrack_scan_duration_seconds",
			Help:    "Duration of scan passes.",
			Buckets: prometheus.DefBuckets,
		}),
		lastScanTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cvtrack_last_scan_timestamp_seconds",
			Help: "Unix time of the last completed scan.",
		}),
	}
	reg.MustRegister(c.scans, c.changes, c.skipped, c.duration, c.lastScanTime)
	return c
}

func (c *Collector) ObserveScan(r store.ScanReport, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.scans.WithLabelValues(result).Inc()
	c.changes.WithLabelValues("updated").Add(float64(r.Updated))
	c.changes.WithLabelValues("discovered").Add(float64(r.Discovered))
	c.changes.WithLabelValues("removed").Add(float64(r.Removed))
	c.skipped.Add(float64(r.Skipped))
	c.duration.Observe(r.Duration.Seconds())
	c.lastScanTime.SetToCurrentTime()
}

// Counts reports live and deleted record counts.
type Counts interface {
	Count() int
	DeletedIDs() []string
}

// RegisterStoreGauges adds gauges that read the record counts at scrape time.
func RegisterStoreGauges(reg prometheus.Registerer, s Counts) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "cvtrack_applications",
			Help: "Live application records.",
		}, func() float64 { return float64(s.Count()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "cvtrack_deleted_applications",
			Help: "Ids in the deleted set.",
		}, func() float64 { return float64(len(s.DeletedIDs())) }),
	)
}

// NewRouter serves /metrics and /healthz.
func NewRouter(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Serve runs the metrics endpoint on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
