// Package config defines runtime configuration for the lookup service.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Source variant names accepted by Config.Source.
const (
	SourceAPI    = "api"
	SourceScrape = "scrape"
)

// Config holds lookup service configuration.
type Config struct {
	ListenAddr    string
	BaseURL       string // public site root, used by the scrape variant
	APIBaseURL    string // internal search API root, used by the api variant
	Source        string // api or scrape
	UserAgent     string
	SearchTimeout time.Duration // per search-page or search-API request
	SelectorWait  time.Duration // total wait for result anchors to appear
	PollInterval  time.Duration // re-fetch interval while waiting for anchors
	DetailTimeout time.Duration // detail-page request
	DebugFile     string        // optional dump of the last search page HTML
	Verbose       bool
}

// DefaultConfig returns conservative defaults for the upstream site.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:    ":8080",
		BaseURL:       "https://tunebat.com",
		APIBaseURL:    "https://api.tunebat.com/api",
		Source:        SourceScrape,
		UserAgent:     "Mozilla/5.0",
		SearchTimeout: 15 * time.Second,
		SelectorWait:  10 * time.Second,
		PollInterval:  time.Second,
		DetailTimeout: 5 * time.Second,
		DebugFile:     "",
		Verbose:       false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if err := validateURL("base URL", c.BaseURL); err != nil {
		return err
	}
	if err := validateURL("API base URL", c.APIBaseURL); err != nil {
		return err
	}
	if c.Source != SourceAPI && c.Source != SourceScrape {
		return fmt.Errorf("source must be %s or %s", SourceAPI, SourceScrape)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.SearchTimeout <= 0 {
		return fmt.Errorf("search timeout must be positive")
	}
	if c.SelectorWait < 0 {
		return fmt.Errorf("selector wait cannot be negative")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.DetailTimeout <= 0 {
		return fmt.Errorf("detail timeout must be positive")
	}
	return nil
}

func validateURL(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}

// EnvString reads a string environment variable, reporting presence.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment variable, reporting presence and
// parse failure separately.
func EnvInt(key string) (int, bool, error) {
	raw, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, true, nil
}

// EnvDuration reads a duration environment variable (time.ParseDuration
// syntax), reporting presence and parse failure separately.
func EnvDuration(key string) (time.Duration, bool, error) {
	raw, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, true, nil
}
