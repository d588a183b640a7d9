package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/metrics"
	"github.com/nholik/pulsecheck/internal/probe"
	"github.com/nholik/pulsecheck/internal/report"
	"github.com/nholik/pulsecheck/internal/server"
	"github.com/rs/zerolog"
)

// Ticker is the minimal interface needed for driving the wait between passes.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	ticker *time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t timeTicker) Stop() {
	t.ticker.Stop()
}

// Monitor drives repeated aggregation passes on a fixed interval. Its
// lifecycle is Idle until Run, then alternating pass execution and waiting
// until the run bound is reached or the context is canceled.
//
// Cancellation is observed only between passes: at the start of a pass and
// while waiting for the next tick. A batch already in flight runs under a
// detached context, so it finishes or times out naturally.
type Monitor struct {
	logger        zerolog.Logger
	runner        *probe.Runner
	probes        []probe.Probe
	sink          report.Sink
	interval      time.Duration
	maxRuns       int
	tickerFactory func(time.Duration) Ticker
	collector     *metrics.Metrics
	tracker       *server.Tracker

	runs       int
	lastReport *health.Report
}

// Option customizes monitor behavior.
type Option func(*Monitor)

// WithMaxRuns bounds the number of passes; 0 runs until canceled.
func WithMaxRuns(n int) Option {
	return func(m *Monitor) {
		m.maxRuns = n
	}
}

// WithTickerFactory overrides how tickers are created. Tests inject a fake
// so loop behavior is observable without wall-clock waits.
func WithTickerFactory(factory func(time.Duration) Ticker) Option {
	return func(m *Monitor) {
		m.tickerFactory = factory
	}
}

// WithMetrics attaches a metrics collector; nil disables recording.
func WithMetrics(collector *metrics.Metrics) Option {
	return func(m *Monitor) {
		m.collector = collector
	}
}

// WithTracker attaches a pass tracker feeding the ops endpoints.
func WithTracker(tracker *server.Tracker) Option {
	return func(m *Monitor) {
		m.tracker = tracker
	}
}

// New constructs a Monitor over a fixed probe batch. Every pass executes the
// same batch through runner and hands the aggregated report to sink.
func New(logger zerolog.Logger, runner *probe.Runner, probes []probe.Probe, sink report.Sink, interval time.Duration, opts ...Option) *Monitor {
	m := &Monitor{
		logger:   logger,
		runner:   runner,
		probes:   probes,
		sink:     sink,
		interval: interval,
		tickerFactory: func(d time.Duration) Ticker {
			return timeTicker{ticker: time.NewTicker(d)}
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Runs reports how many passes have completed.
func (m *Monitor) Runs() int {
	return m.runs
}

// LastReport returns the most recent report, nil before the first pass.
// Only the latest report is retained; history persistence is a sink concern.
func (m *Monitor) LastReport() *health.Report {
	return m.lastReport
}

// Run starts the loop and blocks until the run bound is reached or ctx is
// canceled. The first pass begins immediately. A fully unhealthy report is a
// normal outcome, never a loop error; the only error is invalid configuration.
func (m *Monitor) Run(ctx context.Context) error {
	if m.interval < 0 {
		return errors.New("interval cannot be negative")
	}

	var ticker Ticker
	if m.interval > 0 {
		ticker = m.tickerFactory(m.interval)
		defer ticker.Stop()
	}

	for {
		if ctx.Err() != nil {
			m.logger.Info().Int("runs", m.runs).Msg("monitor stopped")
			return nil
		}

		m.pass(ctx)
		m.runs++

		if m.maxRuns > 0 && m.runs >= m.maxRuns {
			m.logger.Info().Int("runs", m.runs).Msg("monitor finished")
			return nil
		}

		if ticker == nil {
			continue
		}
		select {
		case <-ctx.Done():
			m.logger.Info().Int("runs", m.runs).Msg("monitor stopped")
			return nil
		case <-ticker.C():
		}
	}
}

// pass executes one batch, aggregates it and delivers the report. The batch
// and delivery run under a detached context so cancellation never truncates
// a pass in flight.
func (m *Monitor) pass(ctx context.Context) {
	passCtx := context.WithoutCancel(ctx)
	start := time.Now()

	results := m.runner.Run(passCtx, m.probes)
	rep := health.Aggregate(results)
	duration := time.Since(start)

	m.logTransitions(rep)

	if err := m.sink.Write(passCtx, rep); err != nil {
		m.logger.Error().Err(err).Msg("report delivery failed")
	}

	m.collector.ObservePass(rep, duration)
	m.tracker.RecordPass(rep.Overall, len(rep.Results), duration)

	m.logger.Info().
		Str("overall", rep.Overall.String()).
		Int("probes", len(rep.Results)).
		Dur("duration", duration).
		Msg("pass completed")

	m.lastReport = &rep
}

// logTransitions compares the new report against the previous one and logs
// each probe whose status changed, at a level matching the new severity.
func (m *Monitor) logTransitions(current health.Report) {
	for _, change := range detectTransitions(m.lastReport, current) {
		event := m.logger.Info()
		switch change.To {
		case health.StatusUnhealthy:
			event = m.logger.Error()
		case health.StatusDegraded:
			event = m.logger.Warn()
		}
		event = event.
			Str("probe", change.Name).
			Str("previous_status", change.From.String()).
			Str("current_status", change.To.String())
		if change.Detail != "" {
			event = event.Str("detail", change.Detail)
		}
		event.Msg("probe status transition")
	}
}
