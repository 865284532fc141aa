package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/use-agent/shelf/config"
	"github.com/use-agent/shelf/models"
)

// RedisStore keeps the latest result as a JSON string under a fixed key.
type RedisStore struct {
	rdb *redis.Client
	cfg config.StoreConfig
}

// NewRedisStore creates a client for cfg.RedisAddr. It does not dial; call
// Ping to check connectivity.
func NewRedisStore(cfg config.StoreConfig) *RedisStore {
	return &RedisStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
		cfg: cfg,
	}
}

// Save overwrites the key. A zero TTL keeps the value until replaced.
func (s *RedisStore) Save(ctx context.Context, result *models.ScrapeResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal scrape result: %w", err)
	}
	if err := s.rdb.Set(ctx, s.cfg.Key, payload, s.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.cfg.Key, err)
	}
	return nil
}

// Latest reads and decodes the key.
func (s *RedisStore) Latest(ctx context.Context) (*models.ScrapeResult, error) {
	payload, err := s.rdb.Get(ctx, s.cfg.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.cfg.Key, err)
	}

	var result models.ScrapeResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.cfg.Key, err)
	}
	if result.Products == nil {
		result.Products = []models.ProductRecord{}
	}
	return &result, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
