package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the meetwatch client
type Config struct {
	// Remote service configuration
	APIBaseURL string `envconfig:"MEETWATCH_API_URL" default:"http://localhost:18056"`

	// Opaque credential sent as the X-API-Key header. Not required at load
	// time: unauthenticated operations (label fetch, bot dispatch) work
	// without it, and authenticated calls fail fast locally when it is empty.
	APIKey string `envconfig:"MEETWATCH_API_KEY" default:""`

	// Bot configuration
	BotName string `envconfig:"MEETWATCH_BOT_NAME" default:"Meetwatch Notetaker"`

	// Polling configuration
	PollInterval time.Duration `envconfig:"MEETWATCH_POLL_INTERVAL" default:"3s"` // Transcript poll cadence
	HTTPTimeout  time.Duration `envconfig:"MEETWATCH_HTTP_TIMEOUT" default:"15s"` // Per-request timeout

	// Analysis configuration
	EmotionEnabled bool `envconfig:"MEETWATCH_EMOTION_ENABLED" default:"true"` // Per-speaker emotion analysis
	TimelineLimit  int  `envconfig:"MEETWATCH_TIMELINE_LIMIT" default:"20"`    // Rendered emotion timeline entries

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`        // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"true"`       // Pretty print logs (terminal client)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"false"` // Enable Prometheus metrics listener
	MetricsPort    string `envconfig:"METRICS_PORT" default:"9464"`     // Port for /metrics and /statusz
}

// Load reads configuration from environment variables
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("MEETWATCH_API_URL is required")
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("MEETWATCH_POLL_INTERVAL must be at least 1s, got %s", c.PollInterval)
	}
	if c.TimelineLimit <= 0 {
		return fmt.Errorf("MEETWATCH_TIMELINE_LIMIT must be positive, got %d", c.TimelineLimit)
	}
	return nil
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
