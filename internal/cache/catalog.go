// Package cache keeps the public property catalog in Redis between reads.
// Availability is never cached.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joshua-takyi/tower15/internal/models"
)

const catalogKey = "tower15:catalog:properties"

// ErrMiss is returned when the catalog is not cached.
var ErrMiss = errors.New("cache miss")

type Catalog interface {
	GetProperties(ctx context.Context) ([]models.Property, error)
	SetProperties(ctx context.Context, ps []models.Property) error
	Invalidate(ctx context.Context) error
}

type RedisCatalog struct {
	cli *redis.Client
	ttl time.Duration
}

// NewRedisClient accepts either a redis:// URL or a bare host:port.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %v", err)
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{
		Addr: redisURL,
		DB:   0,
	}), nil
}

func NewRedisCatalog(cli *redis.Client, ttl time.Duration) *RedisCatalog {
	return &RedisCatalog{cli: cli, ttl: ttl}
}

func (c *RedisCatalog) Ping(ctx context.Context) error {
	return c.cli.Ping(ctx).Err()
}

func (c *RedisCatalog) GetProperties(ctx context.Context) ([]models.Property, error) {
	val, err := c.cli.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("error reading catalog cache: %v", err)
	}

	var ps []models.Property
	if err := json.Unmarshal(val, &ps); err != nil {
		return nil, fmt.Errorf("error decoding catalog cache: %v", err)
	}
	return ps, nil
}

func (c *RedisCatalog) SetProperties(ctx context.Context, ps []models.Property) error {
	raw, err := json.Marshal(ps)
	if err != nil {
		return fmt.Errorf("error encoding catalog: %v", err)
	}
	if err := c.cli.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("error writing catalog cache: %v", err)
	}
	return nil
}

func (c *RedisCatalog) Invalidate(ctx context.Context) error {
	if err := c.cli.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("error invalidating catalog cache: %v", err)
	}
	return nil
}

// Noop is used when no REDIS_URL is configured.
type Noop struct{}

func (Noop) GetProperties(ctx context.Context) ([]models.Property, error) { return nil, ErrMiss }
func (Noop) SetProperties(ctx context.Context, ps []models.Property) error { return nil }
func (Noop) Invalidate(ctx context.Context) error { return nil }
