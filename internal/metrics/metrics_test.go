package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounts struct{}

func (fakeCounts) Count() int           { return 3 }
func (fakeCounts) DeletedIDs() []string { return []string{"a"} }

func TestCollector_ObserveScan(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveScan(store.ScanReport{Updated: 1, Discovered: 2, Skipped: 1, Duration: time.Millisecond}, nil)
	c.ObserveScan(store.ScanReport{}, errors.New("disk full"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.scans.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.scans.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.changes.WithLabelValues("discovered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.skipped))
}

func TestRouter_ServesMetricsAndHealth(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg).ObserveScan(store.ScanReport{Discovered: 1}, nil)
	RegisterStoreGauges(reg, fakeCounts{})
	h := NewRouter(reg)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "cvtrack_scans_total")
	assert.Contains(t, string(body), "cvtrack_applications 3")
	assert.Contains(t, string(body), "cvtrack_deleted_applications 1")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
