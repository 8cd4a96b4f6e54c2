// Package ratelimit tracks the Canvas API request quota and paces batch
// submissions. Canvas runs a leaky bucket per token and reports the
// remaining allowance in the X-Rate-Limit-Remaining response header and
// the cost of each request in X-Request-Cost.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gradesync_quota_remaining",
		Help: "Remaining Canvas API request quota from X-Rate-Limit-Remaining",
	})
)

// Quota thresholds. A full Canvas bucket is 700 units.
const (
	// ThresholdWarning slows the batch down to let the bucket refill.
	ThresholdWarning = 300

	// ThresholdCritical applies the maximum pause; the batch still
	// proceeds, pacing is a courtesy rather than a correctness gate.
	ThresholdCritical = 100
)

// Quota holds the most recently observed rate limit state for one token.
type Quota struct {
	mu        sync.Mutex
	remaining float64
	lastCost  float64
	updatedAt time.Time
	known     bool
}

// NewQuota returns an empty quota; until the first response headers arrive
// the state is unknown and treated as healthy.
func NewQuota() *Quota {
	return &Quota{}
}

// UpdateFromHeaders records quota state from a Canvas response. Responses
// without the headers leave the state untouched.
func (q *Quota) UpdateFromHeaders(h http.Header) {
	remaining, err := strconv.ParseFloat(h.Get("X-Rate-Limit-Remaining"), 64)
	if err != nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.remaining = remaining
	q.updatedAt = time.Now()
	q.known = true
	if cost, err := strconv.ParseFloat(h.Get("X-Request-Cost"), 64); err == nil {
		q.lastCost = cost
	}
	quotaRemaining.Set(remaining)
}

// Remaining returns the last observed quota and whether any observation
// has been made yet.
func (q *Quota) Remaining() (float64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.remaining, q.known
}

// NeedsThrottling reports whether the quota sits in the warning band,
// below ThresholdWarning but not yet critical.
func (q *Quota) NeedsThrottling() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.known && q.remaining < ThresholdWarning && q.remaining >= ThresholdCritical
}

// Critical reports whether the quota has dropped below the critical
// threshold.
func (q *Quota) Critical() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.known && q.remaining < ThresholdCritical
}
