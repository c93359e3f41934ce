// Package cache memoizes snapshot reads per (operation, product id). The
// snapshot never changes while a process runs, so cached rows cannot go stale
// within a session; the TTL only bounds memory across snapshot swaps. The
// engine stays correct with the cache disabled — this is purely a host-side
// optimization, and every failure falls through to the repository.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/stocklens/reorder/internal/config"
	"github.com/stocklens/reorder/internal/domain"
	"github.com/stocklens/reorder/internal/repository"
)

const (
	keyPrefix     = "rop:"
	scanBatchSize = 100
	defaultTTL    = 5 * time.Minute
)

// CachedRepository memoizes a ProductRepository through redis.
type CachedRepository struct {
	inner  repository.ProductRepository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedRepository wraps inner with a redis memo. When caching is disabled
// in the config, inner is returned untouched.
func NewCachedRepository(inner repository.ProductRepository, cfg config.CacheConfig) (repository.ProductRepository, error) {
	if !cfg.Enabled {
		return inner, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &CachedRepository{inner: inner, client: client, ttl: ttl}, nil
}

func (c *CachedRepository) ListProducts(ctx context.Context) ([]domain.ProductRef, error) {
	key := keyPrefix + "products"
	var cached []domain.ProductRef
	if readThrough(ctx, c, key, &cached) {
		return cached, nil
	}

	products, err := c.inner.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	writeThrough(ctx, c, key, products)
	return products, nil
}

func (c *CachedRepository) GetProductDetails(ctx context.Context, productID int64) (*domain.ProductDetails, error) {
	key := buildKey("details", productID)
	var cached domain.ProductDetails
	if readThrough(ctx, c, key, &cached) {
		return &cached, nil
	}

	details, err := c.inner.GetProductDetails(ctx, productID)
	if err != nil {
		return nil, err
	}
	writeThrough(ctx, c, key, details)
	return details, nil
}

func (c *CachedRepository) GetShipmentHistory(ctx context.Context, productID int64) ([]domain.ShipmentRecord, error) {
	key := buildKey("shipments", productID)
	var cached []domain.ShipmentRecord
	if readThrough(ctx, c, key, &cached) {
		return cached, nil
	}

	records, err := c.inner.GetShipmentHistory(ctx, productID)
	if err != nil {
		return nil, err
	}
	writeThrough(ctx, c, key, records)
	return records, nil
}

func (c *CachedRepository) GetMonthlyDemand(ctx context.Context, productID int64) ([]domain.MonthlyDemand, error) {
	key := buildKey("demand", productID)
	var cached []domain.MonthlyDemand
	if readThrough(ctx, c, key, &cached) {
		return cached, nil
	}

	demand, err := c.inner.GetMonthlyDemand(ctx, productID)
	if err != nil {
		return nil, err
	}
	writeThrough(ctx, c, key, demand)
	return demand, nil
}

// InvalidateAll drops every memoized row. Called on startup so a swapped
// snapshot never serves the previous session's rows.
func (c *CachedRepository) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, keyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return nil
}

func buildKey(operation string, productID int64) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, operation, productID)
}

func readThrough(ctx context.Context, c *CachedRepository, key string, dest any) bool {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache decode failed")
		return false
	}
	return true
}

func writeThrough(ctx context.Context, c *CachedRepository, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
