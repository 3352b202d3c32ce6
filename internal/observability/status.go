package observability

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthStatus is the payload served at /healthz
type HealthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// WatchStatus is a point-in-time snapshot of the live watch session,
// served at /statusz while a watch is running
type WatchStatus struct {
	SessionID        string `json:"session_id"`
	SessionState     string `json:"session_state"`
	Platform         string `json:"platform"`
	MeetingID        string `json:"meeting_id"`
	TranscriptLength int    `json:"transcript_length"`
	ElapsedSeconds   int64  `json:"elapsed_seconds"`
	Timestamp        string `json:"timestamp"`
}

// StatusFunc supplies the current watch snapshot for /statusz
type StatusFunc func() WatchStatus

// HealthCheckHandler handles health check requests
func HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := HealthStatus{
			Status:    "healthy",
			Service:   "meetwatch",
			Version:   "1.0.0",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(status)
	}
}

// StatusHandler serves the live watch snapshot
func StatusHandler(fn StatusFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fn == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		status := fn()
		status.Timestamp = time.Now().UTC().Format(time.RFC3339)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(status)
	}
}
