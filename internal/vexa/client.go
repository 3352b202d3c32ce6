package vexa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vexalabs/meetwatch/internal/config"
	"github.com/vexalabs/meetwatch/internal/observability"
)

// Client talks to the meeting-bot service. It owns no state beyond its
// connection settings; all meeting state lives on the remote side.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client from configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     observability.WithComponent("vexa"),
	}
}

// HasCredential reports whether an API key is configured
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

// remoteError is the error body shape used by the remote service
type remoteError struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// doJSON performs one JSON request against the service. Authenticated calls
// fail fast with a ConfigError when the credential is absent, before any
// network I/O. A nil out skips body decoding.
func (c *Client) doJSON(ctx context.Context, method, path, endpoint string, authenticated bool, body, out interface{}) error {
	if c.baseURL == "" {
		return &ConfigError{Missing: "API base URL"}
	}
	if authenticated && c.apiKey == "" {
		return &ConfigError{Missing: "API key"}
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// The key is sent whenever present, even on endpoints that accept
	// unauthenticated calls.
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start).Seconds()
	if err != nil {
		observability.RecordAPIRequest(endpoint, "network_error", latency)
		c.logger.Debug().Str("endpoint", endpoint).Str("request_id", requestID).Err(err).Msg("Request failed")
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	observability.RecordAPIRequest(endpoint, fmt.Sprintf("%d", resp.StatusCode), latency)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Best-effort extraction of the remote error message.
		var remote remoteError
		msg := ""
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); readErr == nil {
			if json.Unmarshal(data, &remote) == nil {
				msg = remote.Detail
				if msg == "" {
					msg = remote.Message
				}
			}
		}
		return &TransportError{Endpoint: endpoint, Status: resp.StatusCode, RemoteMessage: msg}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Endpoint: endpoint, Err: err}
	}

	return nil
}

// RequestBot dispatches a transcription bot into a meeting.
// Dispatch is accepted without a credential by the remote service.
func (c *Client) RequestBot(ctx context.Context, platform, nativeMeetingID, botName string) (*BotInfo, error) {
	payload := map[string]string{
		"platform":          platform,
		"native_meeting_id": nativeMeetingID,
		"bot_name":          botName,
	}

	var info BotInfo
	if err := c.doJSON(ctx, http.MethodPost, "/bots", "bot_dispatch", false, payload, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// StopBot removes the bot from a meeting
func (c *Client) StopBot(ctx context.Context, platform, nativeMeetingID string) error {
	path := fmt.Sprintf("/bots/%s/%s", url.PathEscape(platform), url.PathEscape(nativeMeetingID))
	return c.doJSON(ctx, http.MethodDelete, path, "bot_stop", true, nil, nil)
}

// UpdateBotConfig changes the language or task of a running bot
func (c *Client) UpdateBotConfig(ctx context.Context, platform, nativeMeetingID, language, task string) error {
	payload := map[string]string{}
	if language != "" {
		payload["language"] = language
	}
	if task != "" {
		payload["task"] = task
	}
	if len(payload) == 0 {
		return fmt.Errorf("nothing to update: specify a language or task")
	}

	path := fmt.Sprintf("/bots/%s/%s/config", url.PathEscape(platform), url.PathEscape(nativeMeetingID))
	return c.doJSON(ctx, http.MethodPut, path, "bot_config", true, payload, nil)
}

// GetTranscript fetches the full segment list for a meeting, accepting both
// the current and the legacy response shapes
func (c *Client) GetTranscript(ctx context.Context, platform, nativeMeetingID string) ([]Segment, error) {
	path := fmt.Sprintf("/transcripts/%s/%s", url.PathEscape(platform), url.PathEscape(nativeMeetingID))

	var envelope transcriptEnvelope
	if err := c.doJSON(ctx, http.MethodGet, path, "transcript", true, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.normalize(), nil
}

// GetGenerativeSummary fetches the pre-computed narrative summary
func (c *Client) GetGenerativeSummary(ctx context.Context, platform, nativeMeetingID string) (*GenerativeSummary, error) {
	path := fmt.Sprintf("/analysis/summarize_llama/%s/%s", url.PathEscape(platform), url.PathEscape(nativeMeetingID))

	var summary GenerativeSummary
	if err := c.doJSON(ctx, http.MethodGet, path, "summary_generative", true, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetBulletSummary fetches the pre-computed frequency-based summary
func (c *Client) GetBulletSummary(ctx context.Context, platform, nativeMeetingID string) (*BulletSummary, error) {
	path := fmt.Sprintf("/analysis/summarize/%s/%s", url.PathEscape(platform), url.PathEscape(nativeMeetingID))

	var summary BulletSummary
	if err := c.doJSON(ctx, http.MethodGet, path, "summary_bullets", true, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetMood fetches the lightweight per-speaker mood report
func (c *Client) GetMood(ctx context.Context, platform, nativeMeetingID string) (*MoodReport, error) {
	path := fmt.Sprintf("/analysis/mood/%s/%s", url.PathEscape(platform), url.PathEscape(nativeMeetingID))

	var report MoodReport
	if err := c.doJSON(ctx, http.MethodGet, path, "mood", true, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetMeetingEmotions fetches the meeting-level emotion payload
func (c *Client) GetMeetingEmotions(ctx context.Context, platform, nativeMeetingID string) (*EmotionReport, error) {
	path := fmt.Sprintf("/analysis/emotions/%s/%s", url.PathEscape(platform), url.PathEscape(nativeMeetingID))

	var report EmotionReport
	if err := c.doJSON(ctx, http.MethodGet, path, "emotions", true, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetEmotionLabels fetches the emoji and color decorations for emotion
// names. This endpoint is public; a decode failure yields empty maps
// rather than an error, because labels are a cosmetic concern.
func (c *Client) GetEmotionLabels(ctx context.Context) (*EmotionLabels, error) {
	var labels EmotionLabels
	err := c.doJSON(ctx, http.MethodGet, "/analysis/emotions/labels", "emotion_labels", false, nil, &labels)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return &EmotionLabels{Labels: map[string]string{}, Colors: map[string]string{}}, nil
		}
		return nil, err
	}
	if labels.Labels == nil {
		labels.Labels = map[string]string{}
	}
	if labels.Colors == nil {
		labels.Colors = map[string]string{}
	}
	return &labels, nil
}

// ListMeetings fetches the meetings visible to the credential
func (c *Client) ListMeetings(ctx context.Context) ([]Meeting, error) {
	var envelope struct {
		Meetings []Meeting `json:"meetings"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/meetings", "meetings", true, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Meetings, nil
}
