package vexa

import "fmt"

// ConfigError indicates a call was refused locally before any network I/O,
// because the client is missing the base URL or the API key
type ConfigError struct {
	Missing string // Name of the missing setting
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing %s: configure it before calling the meeting-bot service", e.Missing)
}

// TransportError indicates a network failure or a non-2xx response
type TransportError struct {
	Endpoint      string // Logical endpoint name, e.g. "transcript"
	Status        int    // HTTP status code, 0 for network-level failures
	RemoteMessage string // Error detail extracted from the response body, if any
	Err           error  // Underlying error for network-level failures
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s request failed: %v", e.Endpoint, e.Err)
	}
	if e.RemoteMessage != "" {
		return fmt.Sprintf("%s request failed: %s (status %d)", e.Endpoint, e.RemoteMessage, e.Status)
	}
	return fmt.Sprintf("%s request failed: status %d", e.Endpoint, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage returns the remote-provided message when available,
// falling back to the status code
func (e *TransportError) UserMessage() string {
	if e.RemoteMessage != "" {
		return e.RemoteMessage
	}
	if e.Status > 0 {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return "request failed: network error"
}

// ParseError indicates a 2xx response whose body could not be decoded
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s response could not be decoded: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
