package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthHandler serves /healthz responses.
func HealthHandler(tracker *Tracker, interval time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusServiceUnavailable
		if tracker.Healthy(time.Now().UTC(), interval) {
			status = http.StatusOK
		}
		writeJSON(w, status, tracker.Snapshot())
	}
}

// ReadyHandler serves /readyz responses.
func ReadyHandler(tracker *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusServiceUnavailable
		if tracker.Ready() {
			status = http.StatusOK
		}
		writeJSON(w, status, tracker.Snapshot())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
