// Package config loads the console's runtime configuration: an optional
// reviewdeck.yaml in the working directory, overridden by environment
// variables (a .env file is honored when present).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFileName is the config file looked up in the working directory.
	DefaultFileName = "reviewdeck.yaml"

	defaultBaseURL      = "http://localhost:8000"
	defaultLogFile      = "reviewdeck.log"
	defaultPollInterval = 2 * time.Second
	defaultPollAttempts = 20
	defaultHTTPTimeout  = 30 * time.Second
)

// Config holds everything the console needs at startup.
type Config struct {
	// BaseURL is the backend REST API root.
	BaseURL string `yaml:"base_url"`

	// LogFile receives structured diagnostics; the terminal itself stays
	// reserved for the UI.
	LogFile string `yaml:"log_file"`

	// Debug lowers the log level to debug.
	Debug bool `yaml:"debug"`

	// PollInterval is the wait between generation status fetches.
	PollInterval time.Duration `yaml:"poll_interval"`

	// PollAttempts caps the generation polling loop.
	PollAttempts int `yaml:"poll_attempts"`

	// HTTPTimeout bounds individual backend requests.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// Load reads the config file at path (falling back to defaults when it does
// not exist) and applies environment overrides on top.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultFileName
	}
	cfg := defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// No file is fine; env and defaults carry the day.
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	// A .env file is a convenience for local runs, not a requirement.
	_ = godotenv.Load()
	cfg.applyEnv()

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		BaseURL:      defaultBaseURL,
		LogFile:      defaultLogFile,
		PollInterval: defaultPollInterval,
		PollAttempts: defaultPollAttempts,
		HTTPTimeout:  defaultHTTPTimeout,
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("REVIEWDECK_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("REVIEWDECK_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("REVIEWDECK_DEBUG"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Debug = parsed
		}
	}
	if v := os.Getenv("REVIEWDECK_POLL_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.PollInterval = parsed
		}
	}
	if v := os.Getenv("REVIEWDECK_POLL_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.PollAttempts = parsed
		}
	}
	if v := os.Getenv("REVIEWDECK_HTTP_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = parsed
		}
	}
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.LogFile = strings.TrimSpace(c.LogFile)
	if c.LogFile == "" {
		c.LogFile = defaultLogFile
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.PollAttempts <= 0 {
		c.PollAttempts = defaultPollAttempts
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http or https URL, got %q", c.BaseURL)
	}
	return nil
}
