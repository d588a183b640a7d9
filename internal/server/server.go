package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nholik/pulsecheck/internal/metrics"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

// Start launches the ops HTTP server serving /healthz, /readyz and /metrics
// on addr. It returns immediately; the server shuts down when ctx is
// canceled. An empty addr disables the server.
func Start(ctx context.Context, logger zerolog.Logger, addr string, interval time.Duration, tracker *Tracker, collector *metrics.Metrics) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", HealthHandler(tracker, interval))
	mux.HandleFunc("/readyz", ReadyHandler(tracker))
	if collector != nil {
		mux.Handle("/metrics", collector.Handler())
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("ops server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("ops server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Str("addr", addr).Msg("ops server shutdown failed")
		}
	}()
}
