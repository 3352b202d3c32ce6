package resilience

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/vexalabs/meetwatch/internal/vexa"
)

func fastConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		return nil
	}, fastConfig())

	if err != nil {
		t.Fatalf("Retry() failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestRetry_RecoversAfterTransientFailure(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &vexa.TransportError{Endpoint: "transcript", Err: fmt.Errorf("connection refused")}
		}
		return nil
	}, fastConfig())

	if err != nil {
		t.Fatalf("Expected recovery, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		return &vexa.TransportError{Endpoint: "transcript", Status: 503}
	}, fastConfig())

	if err == nil {
		t.Fatal("Expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetry_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		return &vexa.TransportError{Endpoint: "transcript", Status: 404}
	}, fastConfig())

	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Expected no retry on a 404, got %d calls", calls)
	}
}

func TestRetry_ContextCancelStopsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, func() error {
		calls++
		return &vexa.TransportError{Endpoint: "transcript", Status: 502}
	}, fastConfig())

	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Expected no further attempts after cancel, got %d calls", calls)
	}
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		expect bool
	}{
		{"network failure", &vexa.TransportError{Err: fmt.Errorf("connection reset")}, true},
		{"server error", &vexa.TransportError{Status: 500}, true},
		{"client error", &vexa.TransportError{Status: 401}, false},
		{"parse error", &vexa.ParseError{Endpoint: "transcript"}, false},
		{"config error", &vexa.ConfigError{Missing: "API key"}, false},
		{"plain error", fmt.Errorf("boom"), false},
	}

	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.expect {
			t.Errorf("%s: IsRetryableError = %v, want %v", tc.name, got, tc.expect)
		}
	}
}
