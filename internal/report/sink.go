package report

import (
	"context"
	"errors"
	"io"

	"github.com/nholik/pulsecheck/internal/health"
)

// Sink receives the completed report of each aggregation pass. Sinks must
// treat the report as read-only.
type Sink interface {
	Write(ctx context.Context, rep health.Report) error
}

// WriterSink renders every report to one writer in a fixed format.
type WriterSink struct {
	w      io.Writer
	format Format
}

// NewWriterSink builds a sink rendering to w.
func NewWriterSink(w io.Writer, format Format) *WriterSink {
	return &WriterSink{w: w, format: format}
}

// Write implements Sink.
func (s *WriterSink) Write(_ context.Context, rep health.Report) error {
	return Render(s.w, rep, s.format)
}

// MultiSink fans each report out to several sinks.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a sink dispatching to all provided sinks, skipping
// nil entries.
func NewMultiSink(sinks ...Sink) *MultiSink {
	filtered := make([]Sink, 0, len(sinks))
	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		filtered = append(filtered, sink)
	}
	return &MultiSink{sinks: filtered}
}

// Write implements Sink. Every sink sees the report even when an earlier one
// fails; failures are joined.
func (m *MultiSink) Write(ctx context.Context, rep health.Report) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Write(ctx, rep); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
