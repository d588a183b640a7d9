package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/rs/zerolog"
)

func TestFileSink_WritesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "latest.json")
	sink := NewFileSink(path, zerolog.Nop())

	rep := health.Aggregate([]health.Result{
		{Name: "db", Status: health.StatusHealthy, Latency: 12 * time.Millisecond},
		{Name: "cache", Status: health.StatusUnhealthy, Err: os.ErrDeadlineExceeded},
	})

	if err := sink.Write(context.Background(), rep); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if decoded["overall"] != "unhealthy" {
		t.Errorf("overall = %v, want unhealthy", decoded["overall"])
	}
	if decoded["total"] != float64(2) {
		t.Errorf("total = %v, want 2", decoded["total"])
	}
}

func TestFileSink_KeepsOnlyLatestReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.json")
	sink := NewFileSink(path, zerolog.Nop())

	first := health.Aggregate([]health.Result{{Name: "db", Status: health.StatusUnhealthy}})
	second := health.Aggregate([]health.Result{{Name: "db", Status: health.StatusHealthy}})

	if err := sink.Write(context.Background(), first); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := sink.Write(context.Background(), second); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if decoded["overall"] != "healthy" {
		t.Errorf("overall = %v, want healthy (latest report)", decoded["overall"])
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d files, want 1 (no temp files left behind)", len(entries))
	}
}

func TestFileSink_CanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.json")
	sink := NewFileSink(path, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sink.Write(ctx, health.Aggregate(nil)); err == nil {
		t.Fatal("expected error from canceled context")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("snapshot should not exist after canceled write")
	}
}
