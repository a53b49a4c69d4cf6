// Package interfaces defines the core abstractions of the exporter so the
// scheduler, server, and health checker can be tested against mocks.
package interfaces

import "time"

// Gauges is the write surface for the two derived per-user gauges. Only the
// periodic refresher writes through it; the ingestion path never does.
type Gauges interface {
	SetActiveConnections(userIP string, value float64)
	SetRequestsPerSecond(userIP string, value float64)
}

// ActivityTracker tracks per-client recency and rolling request counts and
// recomputes the derived gauges on each refresh tick.
type ActivityTracker interface {
	// OnRequest records one accepted request from userIP at the given time.
	OnRequest(userIP string, now time.Time)

	// Refresh recomputes the derived gauges for every tracked client.
	Refresh(now time.Time)

	// ClientCount returns the number of clients ever tracked.
	ClientCount() int
}

// Scheduler drives the periodic gauge refresh.
type Scheduler interface {
	Start() error
	Stop()
}

// IngestStats exposes ingestion progress for health reporting and
// staleness monitoring.
type IngestStats interface {
	LinesProcessed() uint64
	LinesDropped() uint64
	LastLineAt() time.Time
	StartedAt() time.Time
}

// HealthChecker reports current process health for the /health endpoint.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
}
