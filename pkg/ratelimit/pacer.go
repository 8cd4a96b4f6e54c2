package ratelimit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	pacerPausesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradesync_pacer_pauses_total",
		Help: "Pauses taken between grade submissions by reason",
	}, []string{"reason"}, // "courtesy", "throttled", "critical"
	)
)

// DefaultCourtesyDelay is the baseline pause between consecutive grade
// submissions.
const DefaultCourtesyDelay = 250 * time.Millisecond

// Pacer inserts a pause between consecutive API writes, scaled by the
// observed quota state.
type Pacer struct {
	quota  *Quota
	base   time.Duration
	logger zerolog.Logger
}

// NewPacer creates a pacer over the given quota. A base <= 0 falls back to
// DefaultCourtesyDelay.
func NewPacer(quota *Quota, base time.Duration, logger zerolog.Logger) *Pacer {
	if base <= 0 {
		base = DefaultCourtesyDelay
	}
	return &Pacer{quota: quota, base: base, logger: logger}
}

// Delay returns the pause to take before the next write.
func (p *Pacer) Delay() time.Duration {
	switch {
	case p.quota.Critical():
		pacerPausesTotal.WithLabelValues("critical").Inc()
		return p.base * 10
	case p.quota.NeedsThrottling():
		pacerPausesTotal.WithLabelValues("throttled").Inc()
		return p.base * 4
	default:
		pacerPausesTotal.WithLabelValues("courtesy").Inc()
		return p.base
	}
}

// Pause sleeps for Delay, returning early if the context is cancelled.
func (p *Pacer) Pause(ctx context.Context) {
	delay := p.Delay()
	if delay > p.base {
		remaining, _ := p.quota.Remaining()
		p.logger.Warn().
			Float64("quota_remaining", remaining).
			Dur("delay", delay).
			Msg("Quota low, slowing down submissions")
	}

	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
