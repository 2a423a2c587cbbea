package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the analyzer.
type Config struct {
	// AlphavantageAPIKey is the static API key sent with every request.
	AlphavantageAPIKey string `mapstructure:"alphavantage_api_key"`

	// AlphavantageBaseURL is configurable for testing.
	AlphavantageBaseURL string `mapstructure:"alphavantage_base_url"`

	// RequestTimeout bounds each of the five requests individually.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// RetryCount is zero unless explicitly configured.
	RetryCount int `mapstructure:"retry_count"`

	// DashboardDir is where <TICKER>_dashboard.html is written.
	DashboardDir string `mapstructure:"dashboard_dir"`

	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over config file values. A .env file in
// the working directory, if present, is loaded into the environment first.
//
// Expected environment variables:
//   - ALPHAVANTAGE_API_KEY
//   - ALPHAVANTAGE_BASE_URL (optional, defaults to production)
//   - REQUEST_TIMEOUT (optional, e.g. "30s")
//   - RETRY_COUNT (optional, defaults to 0)
//   - DASHBOARD_DIR (optional, defaults to ".")
//   - LOG_LEVEL, LOG_PRETTY (optional)
func Load() (*Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("retry_count", 0)
	v.SetDefault("dashboard_dir", ".")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.valueanalyzer")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	v.BindEnv("alphavantage_api_key", "ALPHAVANTAGE_API_KEY")
	v.BindEnv("alphavantage_base_url", "ALPHAVANTAGE_BASE_URL")
	v.BindEnv("request_timeout", "REQUEST_TIMEOUT")
	v.BindEnv("retry_count", "RETRY_COUNT")
	v.BindEnv("dashboard_dir", "DASHBOARD_DIR")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("log_pretty", "LOG_PRETTY")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.AlphavantageAPIKey) == "" {
		missing = append(missing, "ALPHAVANTAGE_API_KEY")
	}
	if strings.TrimSpace(c.AlphavantageBaseURL) == "" {
		missing = append(missing, "ALPHAVANTAGE_BASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid configuration: REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("invalid configuration: RETRY_COUNT must not be negative, got %d", c.RetryCount)
	}

	return nil
}
