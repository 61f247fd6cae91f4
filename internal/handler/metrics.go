package handler

import (
	"fmt"
	"net/http"

	"github.com/calshare/calshare/internal/metrics"
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

	writeMetric(w, "calshare_event_cache_hits_total %d\n", snap.EventCacheHits)
	writeMetric(w, "calshare_event_cache_misses_total %d\n", snap.EventCacheMisses)
	writeMetric(w, "calshare_event_read_duration_seconds_count %d\n", snap.EventReadDurationCount)
	writeMetric(w, "calshare_event_read_duration_seconds_sum %.6f\n", float64(snap.EventReadDurationTotalNs)/1e9)

	writeMetric(w, "calshare_events_created_total %d\n", snap.EventsCreated)
	writeMetric(w, "calshare_events_updated_total %d\n", snap.EventsUpdated)
	writeMetric(w, "calshare_events_deleted_total %d\n", snap.EventsDeleted)
	writeMetric(w, "calshare_participants_added_total %d\n", snap.ParticipantsAdded)
	writeMetric(w, "calshare_participants_removed_total %d\n", snap.ParticipantsRemoved)

	writeMetric(w, "calshare_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "calshare_signins_total{status=\"success\"} %d\n", snap.SigninSuccesses)
	writeMetric(w, "calshare_signins_total{status=\"failure\"} %d\n", snap.SigninFailures)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
