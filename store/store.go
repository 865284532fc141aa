// Package store keeps the latest successful scrape under one fixed key.
package store

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/use-agent/shelf/config"
	"github.com/use-agent/shelf/models"
)

// ErrNotFound is returned by Latest when nothing has been stored yet.
var ErrNotFound = errors.New("store: no scraped content")

// Store persists the most recent ScrapeResult. Implementations must be safe
// for concurrent use.
type Store interface {
	// Save replaces the stored result.
	Save(ctx context.Context, result *models.ScrapeResult) error

	// Latest returns the stored result or ErrNotFound.
	Latest(ctx context.Context) (*models.ScrapeResult, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend in health output.
	Name() string

	Close() error
}

// Open returns a Redis store when an address is configured and reachable,
// otherwise an in-memory store. Scraping keeps working without Redis.
func Open(ctx context.Context, cfg config.StoreConfig) Store {
	if cfg.RedisAddr == "" {
		slog.Info("store: using memory backend")
		return NewMemoryStore(cfg.TTL)
	}

	rs := NewRedisStore(cfg)
	if err := rs.Ping(ctx); err != nil {
		slog.Warn("store: redis unreachable, falling back to memory",
			"addr", cfg.RedisAddr,
			"error", err,
		)
		_ = rs.Close()
		return NewMemoryStore(cfg.TTL)
	}
	slog.Info("store: connected to redis", "addr", cfg.RedisAddr, "key", cfg.Key)
	return rs
}

// Describe summarizes the stored payload for health checks: "<n>_products",
// "empty" when the result holds no products, "no_data" when nothing is
// stored, or "error" when the backend fails.
func Describe(ctx context.Context, s Store) string {
	res, err := s.Latest(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		return "no_data"
	case err != nil:
		return "error"
	case len(res.Products) == 0:
		return "empty"
	default:
		return strconv.Itoa(len(res.Products)) + "_products"
	}
}
