package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/mars-weather/internal/weather/providers"
)

var validate = validator.New()

type AppConfig struct {
	// FeedURL is the upstream Curiosity weather feed.
	FeedURL string `validate:"required,url"`

	// RefreshInterval controls how often the whole feed is fetched again.
	RefreshInterval time.Duration `validate:"gt=0"`

	// HTTPTimeout bounds a single outbound request.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// BootstrapTimeout bounds the initial fetch, retries included.
	BootstrapTimeout time.Duration `validate:"gt=0"`

	Port string `validate:"required,numeric"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`
}

// Load reads configuration from the environment, after loading any .env file,
// and validates it.
func Load() (*AppConfig, error) {
	// A missing .env file is fine; the process environment is used as-is.
	_ = godotenv.Load()

	cfg := &AppConfig{
		FeedURL:   getenvDefault("MSL_FEED_URL", providers.DefaultMSLFeedURL),
		Port:      getenvDefault("PORT", "3000"),
		LogLevel:  getenvDefault("LOG_LEVEL", "info"),
		LogFormat: getenvDefault("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "1h"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.BootstrapTimeout, err = getenvDuration("BOOTSTRAP_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return ":" + c.Port
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
