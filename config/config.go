package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultCategoryURL is the listing scraped when a request names no URL.
const DefaultCategoryURL = "https://www.croma.com/televisions-accessories/c/997"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Store     StoreConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "127.0.0.1"
	Port int    // default: 5001
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Chromium process launched for each render.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// WindowWidth and WindowHeight fix the viewport size.
	WindowWidth  int // default: 1920
	WindowHeight int // default: 1080

	// UserAgents is the pool one user agent is drawn from per render.
	UserAgents []string

	// MaxSessions caps how many browser processes may run at once.
	MaxSessions int // default: 2

	// BlockedResourceTypes lists resource types to block.
	// default: ["Font", "Media"]
	BlockedResourceTypes []string

	// BlockAds drops requests to known ad and tracking hosts.
	BlockAds bool // default: true
}

// ScraperConfig controls a single scrape run.
type ScraperConfig struct {
	// DefaultURL is used when a request carries no URL.
	DefaultURL string

	// RunTimeout is the hard deadline for one whole run.
	RunTimeout time.Duration // default: 120s

	// NavigationTimeout bounds the wait for the document body.
	NavigationTimeout time.Duration // default: 20s

	// MinDelay and MaxDelay bound the random pause before navigation.
	MinDelay time.Duration // default: 2s
	MaxDelay time.Duration // default: 4s

	// ScrollStep is the pixel distance of one scroll step.
	ScrollStep int // default: 100

	// MaxScrollSteps bounds the number of scroll steps.
	MaxScrollSteps int // default: 300

	// MinScrollPause and MaxScrollPause bound the pause between scroll steps.
	MinScrollPause time.Duration // default: 100ms
	MaxScrollPause time.Duration // default: 300ms
}

// StoreConfig controls where the latest scrape result is kept.
type StoreConfig struct {
	// RedisAddr selects the Redis store; empty means in-memory.
	RedisAddr     string // default: "localhost:6379"
	RedisPassword string
	RedisDB       int // default: 0

	// Key is the fixed key holding the latest result.
	Key string // default: "scraped_content"

	// TTL expires the stored result; 0 keeps it forever.
	TTL time.Duration // default: 0
}

// CORSConfig controls cross-origin access to the API.
type CORSConfig struct {
	// AllowedOrigins lists allowed origins; empty allows all.
	AllowedOrigins []string
}

// RateLimitConfig controls per-client rate limiting of scrape requests.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client.
	RequestsPerSecond float64 // default: 0.2

	// Burst is the maximum burst size per client.
	Burst int // default: 2
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Edge/120.0.0.0 Safari/537.36",
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SHELF_HOST", "127.0.0.1"),
			Port: envIntOr("SHELF_PORT", 5001),
			Mode: envOr("SHELF_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:             envBoolOr("SHELF_HEADLESS", true),
			NoSandbox:            envBoolOr("SHELF_NO_SANDBOX", true),
			BrowserBin:           os.Getenv("SHELF_BROWSER_BIN"),
			WindowWidth:          envIntOr("SHELF_WINDOW_WIDTH", 1920),
			WindowHeight:         envIntOr("SHELF_WINDOW_HEIGHT", 1080),
			UserAgents:           envSliceOr("SHELF_USER_AGENTS", defaultUserAgents),
			MaxSessions:          envIntOr("SHELF_MAX_SESSIONS", 2),
			BlockedResourceTypes: envSliceOr("SHELF_BLOCKED_RESOURCES", []string{"Font", "Media"}),
			BlockAds:             envBoolOr("SHELF_BLOCK_ADS", true),
		},
		Scraper: ScraperConfig{
			DefaultURL:        envOr("SHELF_DEFAULT_URL", DefaultCategoryURL),
			RunTimeout:        envDurationOr("SHELF_RUN_TIMEOUT", 120*time.Second),
			NavigationTimeout: envDurationOr("SHELF_NAV_TIMEOUT", 20*time.Second),
			MinDelay:          envDurationOr("SHELF_MIN_DELAY", 2*time.Second),
			MaxDelay:          envDurationOr("SHELF_MAX_DELAY", 4*time.Second),
			ScrollStep:        envIntOr("SHELF_SCROLL_STEP", 100),
			MaxScrollSteps:    envIntOr("SHELF_MAX_SCROLL_STEPS", 300),
			MinScrollPause:    envDurationOr("SHELF_MIN_SCROLL_PAUSE", 100*time.Millisecond),
			MaxScrollPause:    envDurationOr("SHELF_MAX_SCROLL_PAUSE", 300*time.Millisecond),
		},
		Store: StoreConfig{
			RedisAddr:     envOr("SHELF_REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("SHELF_REDIS_PASSWORD"),
			RedisDB:       envIntOr("SHELF_REDIS_DB", 0),
			Key:           envOr("SHELF_STORE_KEY", "scraped_content"),
			TTL:           envDurationOr("SHELF_STORE_TTL", 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: envSliceOr("SHELF_CORS_ORIGINS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SHELF_RATE_RPS", 0.2),
			Burst:             envIntOr("SHELF_RATE_BURST", 2),
		},
		Log: LogConfig{
			Level:  envOr("SHELF_LOG_LEVEL", "info"),
			Format: envOr("SHELF_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envSliceOr splits a list variable on "|" when present, otherwise on commas.
// User agents contain commas, so SHELF_USER_AGENTS must use "|".
func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, "|")
		if !strings.Contains(v, "|") {
			parts = strings.Split(v, ",")
		}
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
