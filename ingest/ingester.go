// Package ingest consumes access-log lines from a reader and applies the
// resulting events to the metric store and activity tracker. The host
// process owns the stream itself (stdin, a tailed file, a test harness);
// the ingester only sees lines.
package ingest

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/giygas/nginx-stats-exporter/interfaces"
	"github.com/giygas/nginx-stats-exporter/logging"
	"github.com/giygas/nginx-stats-exporter/logparser"
	"github.com/giygas/nginx-stats-exporter/metrics"
)

// maxLineSize bounds a single log line. Lines beyond this are a sign of a
// corrupt stream, not a legitimate request.
const maxLineSize = 1024 * 1024

// Ingester parses, classifies, and applies log lines one at a time. Every
// mutation is applied synchronously before the next line is read, so
// shutdown needs no flush.
type Ingester struct {
	store   *metrics.Store
	tracker interfaces.ActivityTracker

	linesProcessed atomic.Uint64
	linesDropped   atomic.Uint64
	lastLineUnix   atomic.Int64
	startedAt      time.Time
}

// Compile-time check
var _ interfaces.IngestStats = (*Ingester)(nil)

// New creates an Ingester feeding the given store and tracker.
func New(store *metrics.Store, tracker interfaces.ActivityTracker) *Ingester {
	return &Ingester{
		store:     store,
		tracker:   tracker,
		startedAt: time.Now(),
	}
}

// Run consumes lines from r until EOF, a read error, or ctx cancellation.
// A clean EOF returns nil.
func (in *Ingester) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		in.ProcessLine(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		logging.Error("Log stream read failed", "error", err)
		return err
	}
	return nil
}

// ProcessLine handles one raw log line. Blank and unparseable lines are
// dropped without touching any accumulator; that is the expected
// steady-state for noisy real-world logs, not an error path.
func (in *Ingester) ProcessLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	entry, ok := logparser.Parse(line)
	if !ok {
		in.linesDropped.Add(1)
		return
	}

	now := time.Now()
	in.store.Apply(entry, logparser.Classify(entry), now)
	in.tracker.OnRequest(entry.ClientAddr, now)

	in.linesProcessed.Add(1)
	in.lastLineUnix.Store(now.Unix())
}

// LinesProcessed returns the number of lines accepted so far.
func (in *Ingester) LinesProcessed() uint64 {
	return in.linesProcessed.Load()
}

// LinesDropped returns the number of lines that matched no grammar.
func (in *Ingester) LinesDropped() uint64 {
	return in.linesDropped.Load()
}

// LastLineAt returns when the last line was accepted, zero if none yet.
func (in *Ingester) LastLineAt() time.Time {
	unix := in.lastLineUnix.Load()
	if unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}

// StartedAt returns when the ingester was created.
func (in *Ingester) StartedAt() time.Time {
	return in.startedAt
}
