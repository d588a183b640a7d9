package report

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/rs/zerolog"
)

func fastTiming() timingConfig {
	return timingConfig{
		timeout:           2 * time.Second,
		rateInterval:      time.Millisecond,
		rateBurst:         10,
		backoffMaxElapsed: time.Second,
		backoffMax:        20 * time.Millisecond,
		backoffInitial:    5 * time.Millisecond,
	}
}

func TestWebhookSink_EmptyURLIsNil(t *testing.T) {
	sink, err := NewWebhookSink(zerolog.Nop(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink != nil {
		t.Fatal("expected nil sink for empty URL")
	}
	// A nil sink must still be safe to write to.
	if err := sink.Write(context.Background(), health.Aggregate(nil)); err != nil {
		t.Fatalf("nil sink write: %v", err)
	}
}

func TestWebhookSink_InvalidTemplate(t *testing.T) {
	if _, err := NewWebhookSink(zerolog.Nop(), "http://example.com/hook", "{{ .Broken"); err == nil {
		t.Fatal("expected template parse error")
	}
}

func TestWebhookSink_DeliversReportJSON(t *testing.T) {
	var body atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body.Store(string(data))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink, err := NewWebhookSink(zerolog.Nop(), server.URL, "")
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	rep := health.Aggregate([]health.Result{
		{Name: "db", Status: health.StatusDegraded, Detail: "slow"},
	})
	if err := sink.Write(context.Background(), rep); err != nil {
		t.Fatalf("write: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(body.Load().(string)), &decoded); err != nil {
		t.Fatalf("unmarshal posted body: %v", err)
	}
	if decoded["overall"] != "degraded" {
		t.Errorf("posted overall = %v, want degraded", decoded["overall"])
	}
}

func TestWebhookSink_CustomTemplate(t *testing.T) {
	var body atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body.Store(string(data))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink, err := NewWebhookSink(zerolog.Nop(), server.URL, `{"text": "{{ .Summary }}"}`)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	rep := health.Aggregate([]health.Result{{Name: "db", Status: health.StatusHealthy}})
	if err := sink.Write(context.Background(), rep); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := body.Load().(string); !strings.Contains(got, "1 healthy") {
		t.Errorf("posted body = %q, want summary text", got)
	}
}

func TestPoster_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	poster := newHTTPPoster(zerolog.Nop(), "webhook", server.URL, fastTiming())
	if err := poster.postWithRetry(context.Background(), []byte(`{}`)); err != nil {
		t.Fatalf("post: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestPoster_ClientErrorsAreFinal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	poster := newHTTPPoster(zerolog.Nop(), "webhook", server.URL, fastTiming())
	err := poster.postWithRetry(context.Background(), []byte(`{}`))
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "bad payload") {
		t.Errorf("error = %v, want response body included", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry on client errors)", calls.Load())
	}
}

func TestPoster_CancellationStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	timing := fastTiming()
	timing.backoffInitial = time.Second
	poster := newHTTPPoster(zerolog.Nop(), "webhook", server.URL, timing)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := poster.postWithRetry(ctx, []byte(`{}`)); err == nil {
		t.Fatal("expected error after cancellation")
	}
}

func TestParseRetryAfter(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  time.Duration
		ok    bool
	}{
		{name: "empty", value: "", ok: false},
		{name: "seconds", value: "3", want: 3 * time.Second, ok: true},
		{name: "zero seconds", value: "0", ok: false},
		{name: "negative", value: "-1", ok: false},
		{name: "garbage", value: "soon", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseRetryAfter(tc.value)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("duration = %v, want %v", got, tc.want)
			}
		})
	}
}
