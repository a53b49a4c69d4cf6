// Package tracker maintains per-client recency and rolling request counts
// and recomputes the derived activity gauges on each refresh tick.
package tracker

import (
	"sync"
	"time"

	"github.com/giygas/nginx-stats-exporter/interfaces"
)

const (
	// activeWindow is how long after its last request a client still
	// counts as active.
	activeWindow = 60 * time.Second

	// connectionCap clamps the active-connection estimate. The gauge is a
	// decayed request-count proxy, not a true concurrency count, and the
	// cap keeps a burst from reading as hundreds of connections.
	connectionCap = 10

	// rateWindow is the divisor for the requests-per-second estimate,
	// in seconds.
	rateWindow = 60.0
)

type clientActivity struct {
	requestCount int
	lastSeen     time.Time
}

// Tracker tracks activity per client address. Entries are created on first
// request and never evicted, so memory grows with the number of distinct
// clients seen over the process lifetime. That matches the label sets in the
// metric store, which have the same property; a bounded variant would need
// to evict both together.
type Tracker struct {
	mu      sync.RWMutex
	clients map[string]*clientActivity
	gauges  interfaces.Gauges
}

// Compile-time check
var _ interfaces.ActivityTracker = (*Tracker)(nil)

// New creates a Tracker writing its derived gauges through the given sink.
func New(gauges interfaces.Gauges) *Tracker {
	return &Tracker{
		clients: make(map[string]*clientActivity),
		gauges:  gauges,
	}
}

// OnRequest records one accepted request from userIP.
func (t *Tracker) OnRequest(userIP string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	activity, ok := t.clients[userIP]
	if !ok {
		activity = &clientActivity{}
		t.clients[userIP] = activity
	}
	activity.requestCount++
	activity.lastSeen = now
}

// Refresh recomputes the derived gauges for every tracked client. Clients
// seen within the activity window get their clamped request count as the
// active-connection estimate and count/60 as the rate estimate; clients
// idle past the window are zeroed and their pending count reset.
func (t *Tracker) Refresh(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for userIP, activity := range t.clients {
		if now.Sub(activity.lastSeen) < activeWindow {
			active := activity.requestCount
			if active > connectionCap {
				active = connectionCap
			}
			t.gauges.SetActiveConnections(userIP, float64(active))
			t.gauges.SetRequestsPerSecond(userIP, float64(activity.requestCount)/rateWindow)
		} else {
			t.gauges.SetActiveConnections(userIP, 0)
			t.gauges.SetRequestsPerSecond(userIP, 0)
			activity.requestCount = 0
		}
	}
}

// ClientCount returns the number of clients ever tracked.
func (t *Tracker) ClientCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.clients)
}
