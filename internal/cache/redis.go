package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/fixhub-io/fixhub-ce/internal/config"
	"github.com/fixhub-io/fixhub-ce/internal/models"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixhub_cache_hits_total",
		Help: "Ticket cache hits.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixhub_cache_misses_total",
		Help: "Ticket cache misses.",
	})
	cacheErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixhub_cache_errors_total",
		Help: "Ticket cache errors.",
	})
)

// TicketCache keeps fully-joined ticket payloads in Redis. A nil cache is
// valid and behaves as a permanent miss, so callers never need to branch on
// whether caching is configured.
type TicketCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTicketCache connects to Redis using the given config. It returns nil
// (cache disabled) when no address is configured or the server is
// unreachable; the app works without it.
func NewTicketCache(cfg config.RedisConfig) *TicketCache {
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("cache: redis unreachable at %s, running without cache: %v", cfg.Addr, err)
		_ = client.Close()
		return nil
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TicketCache{client: client, ttl: ttl}
}

func ticketKey(id int64) string {
	return fmt.Sprintf("fixhub:ticket:%d", id)
}

// Get returns the cached ticket or nil on a miss.
func (c *TicketCache) Get(ctx context.Context, id int64) *models.Ticket {
	if c == nil {
		return nil
	}

	data, err := c.client.Get(ctx, ticketKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cacheErrors.Inc()
		}
		cacheMisses.Inc()
		return nil
	}

	var ticket models.Ticket
	if err := json.Unmarshal(data, &ticket); err != nil {
		cacheErrors.Inc()
		return nil
	}
	cacheHits.Inc()
	return &ticket
}

// Set stores the ticket payload.
func (c *TicketCache) Set(ctx context.Context, ticket *models.Ticket) {
	if c == nil || ticket == nil {
		return
	}

	data, err := json.Marshal(ticket)
	if err != nil {
		cacheErrors.Inc()
		return
	}
	if err := c.client.Set(ctx, ticketKey(ticket.ID), data, c.ttl).Err(); err != nil {
		cacheErrors.Inc()
	}
}

// Invalidate drops the cached entry for a ticket.
func (c *TicketCache) Invalidate(ctx context.Context, id int64) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, ticketKey(id)).Err(); err != nil {
		cacheErrors.Inc()
	}
}

// Close releases the Redis connection.
func (c *TicketCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
