package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be 1-65535, got %d", cfg.Server.Port)
	}
	if cfg.Browser.MaxSessions < 1 {
		return fmt.Errorf("browser max sessions must be >= 1, got %d", cfg.Browser.MaxSessions)
	}
	if len(cfg.Browser.UserAgents) == 0 {
		return fmt.Errorf("browser user agent pool must not be empty")
	}
	if cfg.Browser.WindowWidth <= 0 || cfg.Browser.WindowHeight <= 0 {
		return fmt.Errorf("browser window size must be positive, got %dx%d",
			cfg.Browser.WindowWidth, cfg.Browser.WindowHeight)
	}

	s := cfg.Scraper
	if s.NavigationTimeout <= 0 {
		return fmt.Errorf("scraper navigation timeout must be > 0")
	}
	if s.RunTimeout < s.NavigationTimeout {
		return fmt.Errorf("scraper run timeout (%s) must be >= navigation timeout (%s)",
			s.RunTimeout, s.NavigationTimeout)
	}
	if s.MinDelay < 0 || s.MaxDelay < s.MinDelay {
		return fmt.Errorf("scraper delay range invalid: [%s, %s]", s.MinDelay, s.MaxDelay)
	}
	if s.MinScrollPause < 0 || s.MaxScrollPause < s.MinScrollPause {
		return fmt.Errorf("scraper scroll pause range invalid: [%s, %s]", s.MinScrollPause, s.MaxScrollPause)
	}
	if s.ScrollStep <= 0 {
		return fmt.Errorf("scraper scroll step must be > 0, got %d", s.ScrollStep)
	}
	if s.MaxScrollSteps < 0 {
		return fmt.Errorf("scraper max scroll steps must be >= 0, got %d", s.MaxScrollSteps)
	}
	if err := ValidateURL(s.DefaultURL); err != nil {
		return fmt.Errorf("scraper default URL: %w", err)
	}

	if cfg.Store.Key == "" {
		return fmt.Errorf("store key must not be empty")
	}
	if cfg.Store.TTL < 0 {
		return fmt.Errorf("store TTL must be >= 0")
	}

	if cfg.RateLimit.RequestsPerSecond <= 0 || cfg.RateLimit.Burst < 1 {
		return fmt.Errorf("rate limit must be positive, got rps=%g burst=%d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Log.Level] {
		return fmt.Errorf("log level must be debug/info/warn/error, got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("log format must be 'text' or 'json', got %q", cfg.Log.Format)
	}

	return nil
}

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
