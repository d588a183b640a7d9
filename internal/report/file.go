package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/rs/zerolog"
)

// FileSink atomically replaces a JSON snapshot file with the latest report.
// Only the most recent report is kept; this is a snapshot, not a history.
type FileSink struct {
	path   string
	logger zerolog.Logger
}

// NewFileSink returns a sink writing report snapshots to path.
func NewFileSink(path string, logger zerolog.Logger) *FileSink {
	return &FileSink{
		path:   path,
		logger: logger,
	}
}

// Write implements Sink. The snapshot is written to a temp file, synced and
// renamed into place so readers never observe a partial report.
func (s *FileSink) Write(ctx context.Context, rep health.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return err
	}

	cleanup := func() {
		_ = os.Remove(tempFile.Name())
	}

	encoder := json.NewEncoder(tempFile)
	if err := encoder.Encode(payloadFrom(rep)); err != nil {
		_ = tempFile.Close()
		cleanup()
		return err
	}
	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		cleanup()
		return err
	}
	if err := tempFile.Close(); err != nil {
		cleanup()
		return err
	}

	if err := os.Rename(tempFile.Name(), s.path); err != nil {
		cleanup()
		return err
	}

	if dirHandle, err := os.Open(dir); err == nil {
		_ = dirHandle.Sync()
		_ = dirHandle.Close()
	}

	s.logger.Debug().
		Str("path", s.path).
		Str("overall", rep.Overall.String()).
		Msg("report snapshot written")

	return nil
}
