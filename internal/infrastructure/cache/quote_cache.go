package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/ports"
)

// RedisQuoteCache caches resolved price quotes in Redis. Pricing is
// evaluated per storefront request and the ERP is rate limited, so a short
// TTL takes most of the read load off it without letting stale prices
// linger. Unavailable quotes are never cached: the next request should
// retry the ERP.
type RedisQuoteCache struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisQuoteCache creates a Redis-backed quote cache.
func NewRedisQuoteCache(client *redis.Client, logger zerolog.Logger) ports.QuoteCache {
	return &RedisQuoteCache{client: client, logger: logger}
}

func quoteKey(customerID, partNumber string) string {
	return fmt.Sprintf("quote:%s:%s", customerID, partNumber)
}

// Get returns the cached quote, or nil on a miss.
func (c *RedisQuoteCache) Get(ctx context.Context, customerID, partNumber string) (*domain.PriceQuote, error) {
	raw, err := c.client.Get(ctx, quoteKey(customerID, partNumber)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read quote cache: %w", err)
	}

	var quote domain.PriceQuote
	if err := json.Unmarshal(raw, &quote); err != nil {
		// A corrupt entry is treated as a miss so it gets overwritten.
		c.logger.Warn().Err(err).Str("part", partNumber).Msg("Dropping corrupt cached quote")
		return nil, nil
	}
	return &quote, nil
}

// Put stores a quote under the given TTL.
func (c *RedisQuoteCache) Put(ctx context.Context, customerID, partNumber string, quote domain.PriceQuote, ttl time.Duration) error {
	if quote.Tier == domain.TierUnavailable {
		return nil
	}
	raw, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("failed to encode quote: %w", err)
	}
	if err := c.client.Set(ctx, quoteKey(customerID, partNumber), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write quote cache: %w", err)
	}
	return nil
}
