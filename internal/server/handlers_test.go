package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nholik/pulsecheck/internal/health"
)

func TestHealthHandler(t *testing.T) {
	tracker := NewTracker()
	interval := 30 * time.Second

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler := HealthHandler(tracker, interval)
	handler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before any pass, got %d", rec.Code)
	}

	tracker.RecordPass(health.StatusHealthy, 4, 10*time.Millisecond)
	rec = httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after a pass, got %d", rec.Code)
	}

	var snapshot Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snapshot); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if snapshot.Probes != 4 {
		t.Errorf("snapshot.Probes = %d, want 4", snapshot.Probes)
	}
}

func TestReadyHandler(t *testing.T) {
	tracker := NewTracker()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	handler := ReadyHandler(tracker)
	handler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before ready, got %d", rec.Code)
	}

	tracker.RecordPass(health.StatusUnhealthy, 1, 5*time.Millisecond)
	rec = httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after ready, got %d", rec.Code)
	}
}
