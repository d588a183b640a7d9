package server

import (
	"sync"
	"time"

	"github.com/nholik/pulsecheck/internal/health"
)

// Snapshot describes the latest pass for the ops endpoints.
type Snapshot struct {
	LastPassTime   *time.Time `json:"last_pass_time"`
	PassDurationMS int64      `json:"pass_duration_ms"`
	Probes         int        `json:"probes"`
	Overall        string     `json:"overall"`
}

// Tracker records pass timing for the ops endpoints. A nil *Tracker is a
// valid no-op receiver, so the monitor records unconditionally.
type Tracker struct {
	mu           sync.RWMutex
	lastPass     time.Time
	passDuration time.Duration
	probes       int
	overall      health.Status
	ready        bool
}

// NewTracker constructs a new Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RecordPass updates pass timing and readiness.
func (t *Tracker) RecordPass(overall health.Status, probes int, duration time.Duration) {
	if t == nil {
		return
	}
	now := time.Now().UTC()
	t.mu.Lock()
	t.lastPass = now
	t.passDuration = duration
	t.probes = probes
	t.overall = overall
	t.ready = true
	t.mu.Unlock()
}

// Snapshot returns the current tracker snapshot.
func (t *Tracker) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{}
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	var last *time.Time
	if !t.lastPass.IsZero() {
		value := t.lastPass
		last = &value
	}
	return Snapshot{
		LastPassTime:   last,
		PassDurationMS: int64(t.passDuration / time.Millisecond),
		Probes:         t.probes,
		Overall:        t.overall.String(),
	}
}

// Ready reports whether at least one pass has completed.
func (t *Tracker) Ready() bool {
	if t == nil {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ready
}

// Healthy reports whether the last pass completed within 2x the interval.
// This is process liveness: a stalled monitor loop is unhealthy even when
// every probed target is fine.
func (t *Tracker) Healthy(now time.Time, interval time.Duration) bool {
	if t == nil {
		return false
	}
	if interval <= 0 {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.lastPass.IsZero() {
		return false
	}
	return now.Sub(t.lastPass) <= 2*interval
}
