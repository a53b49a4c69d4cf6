// Command nginx-stats-exporter reads nginx access-log lines from stdin and
// serves per-user request, rate-limit, and timeout metrics in Prometheus
// format. Feed it the access log with something like:
//
//	tail -F /var/log/nginx/access.log | nginx-stats-exporter
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/giygas/nginx-stats-exporter/config"
	"github.com/giygas/nginx-stats-exporter/health"
	"github.com/giygas/nginx-stats-exporter/ingest"
	"github.com/giygas/nginx-stats-exporter/logging"
	"github.com/giygas/nginx-stats-exporter/metrics"
	"github.com/giygas/nginx-stats-exporter/scheduler"
	"github.com/giygas/nginx-stats-exporter/server"
	"github.com/giygas/nginx-stats-exporter/tracker"
)

func main() {
	// .env is optional; env vars alone are fine in production
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.LogLevel)

	store := metrics.NewStore()
	activity := tracker.New(store)
	ingester := ingest.New(store, activity)

	refresher := scheduler.NewScheduler(activity, ingester)
	if err := refresher.Start(); err != nil {
		logging.Error("Failed to start refresh scheduler", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(cfg, store, health.NewChecker(ingester, activity))

	ingestCtx, stopIngest := context.WithCancel(context.Background())
	go func() {
		source := ingest.DecodeReader(os.Stdin, cfg.LogEncoding)
		if err := ingester.Run(ingestCtx, source); err != nil && !errors.Is(err, context.Canceled) {
			logging.Error("Ingestion stopped", "error", err)
		} else {
			logging.Info("Log stream ended",
				"lines_processed", ingester.LinesProcessed(),
				"lines_dropped", ingester.LinesDropped())
		}
	}()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Stop taking input first; every applied mutation is already visible,
	// so there is nothing to flush.
	stopIngest()
	refresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown failed", "error", err)
		os.Exit(1)
	}
}
