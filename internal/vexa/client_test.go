package vexa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vexalabs/meetwatch/internal/config"
)

func testConfig(baseURL, apiKey string) *config.Config {
	return &config.Config{
		APIBaseURL:  baseURL,
		APIKey:      apiKey,
		HTTPTimeout: 5 * time.Second,
	}
}

func TestGetTranscript_FlatShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "key" {
			t.Errorf("Expected X-API-Key header 'key', got '%s'", r.Header.Get("X-API-Key"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"segments":[{"time":"00:01","speaker":"A","text":"hello world"}]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, "key"))
	segments, err := client.GetTranscript(context.Background(), "google_meet", "abc-123")
	if err != nil {
		t.Fatalf("GetTranscript() failed: %v", err)
	}

	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	if segments[0].Speaker != "A" || segments[0].Text != "hello world" || segments[0].Time != "00:01" {
		t.Errorf("Unexpected segment: %+v", segments[0])
	}
}

func TestGetTranscript_LegacyShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"transcripts":[{"absolute_start_time":"2025-01-01T10:00:00Z","speaker_name":"Bob","transcript":"legacy entry"}]}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, "key"))
	segments, err := client.GetTranscript(context.Background(), "google_meet", "abc-123")
	if err != nil {
		t.Fatalf("GetTranscript() failed: %v", err)
	}

	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	if segments[0].Time != "2025-01-01T10:00:00Z" {
		t.Errorf("Expected time from absolute_start_time, got '%s'", segments[0].Time)
	}
	if segments[0].Speaker != "Bob" {
		t.Errorf("Expected speaker from speaker_name, got '%s'", segments[0].Speaker)
	}
	if segments[0].Text != "legacy entry" {
		t.Errorf("Expected text from transcript field, got '%s'", segments[0].Text)
	}
}

func TestGetTranscript_MissingCredentialFailsFast(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""))
	_, err := client.GetTranscript(context.Background(), "google_meet", "abc-123")

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
	if called {
		t.Error("Expected no network call without a credential")
	}
}

func TestGetTranscript_RemoteErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"meeting not found"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, "key"))
	_, err := client.GetTranscript(context.Background(), "google_meet", "missing")

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if transportErr.Status != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", transportErr.Status)
	}
	if transportErr.UserMessage() != "meeting not found" {
		t.Errorf("Expected remote message, got '%s'", transportErr.UserMessage())
	}
}

func TestGetTranscript_StatusFallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream exploded`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, "key"))
	_, err := client.GetTranscript(context.Background(), "google_meet", "abc-123")

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if transportErr.UserMessage() != "request failed with status 502" {
		t.Errorf("Expected status fallback message, got '%s'", transportErr.UserMessage())
	}
}

func TestGetTranscript_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"segments": not-json`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, "key"))
	_, err := client.GetTranscript(context.Background(), "google_meet", "abc-123")

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected ParseError, got %v", err)
	}
}

func TestRequestBot_NoCredentialRequired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/bots" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"id":7,"platform":"google_meet","native_meeting_id":"abc-123","status":"requested"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""))
	info, err := client.RequestBot(context.Background(), "google_meet", "abc-123", "Notetaker")
	if err != nil {
		t.Fatalf("RequestBot() failed: %v", err)
	}
	if info.ID != 7 || info.Status != "requested" {
		t.Errorf("Unexpected bot info: %+v", info)
	}
}

func TestGetEmotionLabels_PublicEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analysis/emotions/labels" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"labels":{"joy":"J"},"colors":{"joy":"#FBBF24"}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""))
	labels, err := client.GetEmotionLabels(context.Background())
	if err != nil {
		t.Fatalf("GetEmotionLabels() failed: %v", err)
	}
	if labels.Labels["joy"] != "J" {
		t.Errorf("Expected joy label, got %+v", labels.Labels)
	}
}

func TestGetEmotionLabels_MalformedBodyYieldsEmptyMaps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`garbage`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""))
	labels, err := client.GetEmotionLabels(context.Background())
	if err != nil {
		t.Fatalf("GetEmotionLabels() failed: %v", err)
	}
	if len(labels.Labels) != 0 || len(labels.Colors) != 0 {
		t.Errorf("Expected empty label maps, got %+v", labels)
	}
}

func TestGetMood(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analysis/mood/google_meet/abc-123" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"moods":{"Alice":{"dominant":"joy"},"Bob":{"dominant":"anger"}}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, "key"))
	report, err := client.GetMood(context.Background(), "google_meet", "abc-123")
	if err != nil {
		t.Fatalf("GetMood() failed: %v", err)
	}
	if report.Moods["Alice"].Dominant != "joy" {
		t.Errorf("Unexpected mood report: %+v", report.Moods)
	}
}

func TestListMeetings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meetings":[{"platform":"google_meet","native_meeting_id":"abc-123"},{"platform":"zoom","native_meeting_id":"987"}]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, "key"))
	meetings, err := client.ListMeetings(context.Background())
	if err != nil {
		t.Fatalf("ListMeetings() failed: %v", err)
	}
	if len(meetings) != 2 {
		t.Fatalf("Expected 2 meetings, got %d", len(meetings))
	}
	if meetings[1].Platform != "zoom" {
		t.Errorf("Unexpected meeting: %+v", meetings[1])
	}
}
