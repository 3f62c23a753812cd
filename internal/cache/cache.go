package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"stockdash.com/internal/config"
	"stockdash.com/internal/dto"
)

var ErrCacheMiss = errors.New("cache miss")

const quoteKeyPrefix = "quote:"

type QuoteCache interface {
	Get(ctx context.Context, symbol string) (*dto.Quote, error)
	Set(ctx context.Context, quote *dto.Quote) error
	Ping(ctx context.Context) error
}

// New returns a Redis-backed cache, or a Noop cache when no address is configured.
func New(cfg config.RedisConfig) QuoteCache {
	if strings.TrimSpace(cfg.Addr) == "" {
		return Noop{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisQuoteCache(client, time.Duration(cfg.QuoteTTLSeconds)*time.Second)
}

type RedisQuoteCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisQuoteCache(client redis.UniversalClient, ttl time.Duration) *RedisQuoteCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisQuoteCache{
		client: client,
		ttl:    ttl,
	}
}

func quoteKey(symbol string) string {
	return quoteKeyPrefix + strings.ToUpper(symbol)
}

func (c *RedisQuoteCache) Get(ctx context.Context, symbol string) (*dto.Quote, error) {
	raw, err := c.client.Get(ctx, quoteKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached quote: %w", err)
	}

	var quote dto.Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return nil, fmt.Errorf("failed to decode cached quote: %w", err)
	}
	return &quote, nil
}

func (c *RedisQuoteCache) Set(ctx context.Context, quote *dto.Quote) error {
	if quote == nil {
		return errors.New("quote is nil")
	}
	raw, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("failed to encode quote: %w", err)
	}
	if err := c.client.Set(ctx, quoteKey(quote.Symbol), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache quote: %w", err)
	}
	return nil
}

func (c *RedisQuoteCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisQuoteCache) Close() error {
	return c.client.Close()
}

// Noop never stores anything; every Get is a miss.
type Noop struct{}

func (Noop) Get(context.Context, string) (*dto.Quote, error) { return nil, ErrCacheMiss }
func (Noop) Set(context.Context, *dto.Quote) error           { return nil }
func (Noop) Ping(context.Context) error                      { return nil }
