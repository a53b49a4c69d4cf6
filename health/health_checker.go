// Package health reports exporter liveness for the /health endpoint.
package health

import (
	"net/http"
	"time"

	"github.com/giygas/nginx-stats-exporter/interfaces"
)

// stalledAfter is how long ingestion may sit idle, after having seen
// traffic, before health reports degraded. Quiet periods shorter than this
// are normal for low-traffic vhosts.
const stalledAfter = 15 * time.Minute

// CheckerImpl implements interfaces.HealthChecker over ingestion stats.
type CheckerImpl struct {
	stats   interfaces.IngestStats
	tracker interfaces.ActivityTracker
}

// NewChecker creates a health checker with injected dependencies.
func NewChecker(stats interfaces.IngestStats, tracker interfaces.ActivityTracker) interfaces.HealthChecker {
	return &CheckerImpl{
		stats:   stats,
		tracker: tracker,
	}
}

// HealthCheck returns the current health status. The endpoint always
// answers 200: a scrape target that is up is healthy by definition, and a
// stalled log pipeline is reported in the payload rather than by failing
// the probe and getting the exporter restarted for an upstream problem.
func (h *CheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	processed := h.stats.LinesProcessed()
	last := h.stats.LastLineAt()

	status = "healthy"
	if processed > 0 && time.Since(last) > stalledAfter {
		status = "stalled"
	}

	data = map[string]any{
		"lines_processed": processed,
		"lines_dropped":   h.stats.LinesDropped(),
		"tracked_clients": h.tracker.ClientCount(),
		"uptime_seconds":  int(time.Since(h.stats.StartedAt()).Seconds()),
	}
	if !last.IsZero() {
		data["last_line"] = last.Format(time.RFC3339)
	}

	return status, data, http.StatusOK
}
