// Package cache keeps recently read products in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"catalog-service/internal/config"
	"catalog-service/internal/domain"
	"catalog-service/internal/metrics"
)

const (
	keyPrefix = "catalog:product:"
	// tombstone is stored in place of a deleted product.
	tombstone = "-"
)

// Products is a get-by-id cache. A nil *Products is valid and caches nothing.
type Products struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// New returns nil when no address is configured.
func New(cfg config.Redis, logger *log.Logger) *Products {
	if cfg.Addr == "" {
		return nil
	}
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	}), cfg.TTL, logger)
}

func NewWithClient(client *redis.Client, ttl time.Duration, logger *log.Logger) *Products {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Products{client: client, ttl: ttl, logger: logger}
}

func Key(id string) string {
	return keyPrefix + id
}

// Ping checks the connection. It is used by the readiness probe.
func (c *Products) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Get returns the cached product. Any Redis failure is reported as a miss.
func (c *Products) Get(ctx context.Context, id string) (*domain.Product, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Printf("cache: get id=%s error=%v", id, err)
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if string(raw) == tombstone {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		c.logger.Printf("cache: decode id=%s error=%v", id, err)
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &p, true
}

// Add stores p only when the key is empty. Read-through fills use it so they
// never overwrite a newer value or a tombstone.
func (c *Products) Add(ctx context.Context, p domain.Product) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		c.logger.Printf("cache: encode id=%s error=%v", p.ID, err)
		return
	}
	if err := c.client.SetNX(ctx, Key(p.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Printf("cache: add id=%s error=%v", p.ID, err)
	}
}

// Set overwrites the entry with a freshly written product.
func (c *Products) Set(ctx context.Context, p domain.Product) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		c.logger.Printf("cache: encode id=%s error=%v", p.ID, err)
		return
	}
	if err := c.client.Set(ctx, Key(p.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Printf("cache: set id=%s error=%v", p.ID, err)
	}
}

// Delete replaces the entry with a tombstone that lives as long as a regular
// entry, which outlasts any fill started before the delete.
func (c *Products) Delete(ctx context.Context, id string) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, Key(id), tombstone, c.ttl).Err(); err != nil {
		c.logger.Printf("cache: delete id=%s error=%v", id, err)
	}
}

func (c *Products) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
