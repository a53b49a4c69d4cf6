// Package scheduler runs the periodic gauge refresh and watches ingestion
// for staleness. It wraps gocron so the refresh cadence is independent of
// the ingestion rate.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/giygas/nginx-stats-exporter/interfaces"
	"github.com/giygas/nginx-stats-exporter/logging"
)

// refreshInterval is how often the derived gauges are recomputed.
const refreshInterval = 5 * time.Second

// Compile-time check to ensure Scheduler implements the Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler drives ActivityTracker.Refresh on a fixed interval using
// injected dependencies.
type Scheduler struct {
	tracker   interfaces.ActivityTracker
	stats     interfaces.IngestStats
	scheduler *gocron.Scheduler
	done      chan struct{}
}

// NewScheduler creates a scheduler refreshing the given tracker. stats may
// be nil, which disables the staleness monitor.
func NewScheduler(tracker interfaces.ActivityTracker, stats interfaces.IngestStats) *Scheduler {
	return &Scheduler{
		tracker:   tracker,
		stats:     stats,
		scheduler: gocron.NewScheduler(time.UTC),
		done:      make(chan struct{}),
	}
}

// Start schedules the refresh job and begins running it asynchronously.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(refreshInterval).Do(s.refresh)
	if err != nil {
		logging.Error("Failed to schedule gauge refresh", "error", err)
		return fmt.Errorf("failed to schedule gauge refresh: %w", err)
	}

	s.scheduler.StartAsync()

	if s.stats != nil {
		s.startStalenessMonitor()
	}

	return nil
}

// Stop stops the refresh loop and the staleness monitor.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	close(s.done)
}

// refresh runs one full pass over all tracked clients. A failure inside a
// tick must never kill the loop; the next tick runs regardless.
func (s *Scheduler) refresh() {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Gauge refresh failed", "panic", r)
		}
	}()

	s.tracker.Refresh(time.Now())
}

// startStalenessMonitor warns when log lines stop arriving. An exporter
// that is up but starved of input looks healthy on /metrics, so this is the
// only signal that the log pipeline upstream broke.
func (s *Scheduler) startStalenessMonitor() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				last := s.stats.LastLineAt()
				if s.stats.LinesProcessed() > 0 && time.Since(last) > 1*time.Hour {
					logging.Warn("No log lines ingested in over an hour",
						"last_line", last.Format(time.RFC3339))
				}
			}
		}
	}()
}
