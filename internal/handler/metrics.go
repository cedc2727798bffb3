package handler

import (
	"fmt"
	"net/http"

	"github.com/shortenerproject/shortener/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "shortener_redirects_total{result=\"resolved\"} %d\n", snap.RedirectsResolved)
	writeMetric(w, "shortener_redirects_total{result=\"not_found\"} %d\n", snap.RedirectsNotFound)
	writeMetric(w, "shortener_redirect_duration_seconds_count %d\n", snap.RedirectDurationCount)
	writeMetric(w, "shortener_redirect_duration_seconds_sum %.6f\n", float64(snap.RedirectDurationTotalNs)/1e9)

	writeMetric(w, "shortener_links_created_total %d\n", snap.LinksCreated)
	writeMetric(w, "shortener_links_updated_total %d\n", snap.LinksUpdated)
	writeMetric(w, "shortener_links_deleted_total %d\n", snap.LinksDeleted)

	writeMetric(w, "shortener_alias_collisions_total %d\n", snap.AliasCollisions)
	writeMetric(w, "shortener_alias_allocations_exhausted_total %d\n", snap.AllocationsExhausted)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
