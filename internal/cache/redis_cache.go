package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/match-prediction-service/internal/metrics"
	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

// evictScript removes every entry whose expiry score is strictly below ARGV[1]
// (unix millis). KEYS[1] is the expiry index, ARGV[2] the entry key prefix.
// Running as one script keeps each delete atomic with respect to readers.
var evictScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', '(' .. ARGV[1])
for _, id in ipairs(ids) do
	redis.call('DEL', ARGV[2] .. id)
	redis.call('ZREM', KEYS[1], id)
end
return #ids
`)

// RedisCache caches reconciled predictions in Redis, one entry per match
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	grace     time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// RedisCacheConfig holds Redis cache configuration
type RedisCacheConfig struct {
	Addr      string // e.g., "localhost:6379"
	Password  string
	DB        int
	KeyPrefix string        // e.g., "predictions"
	Grace     time.Duration // native Redis expiry beyond the logical TTL, e.g., 24 * time.Hour
}

// NewRedisCache creates a new Redis cache
func NewRedisCache(config RedisCacheConfig, logger zerolog.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if config.KeyPrefix == "" {
		config.KeyPrefix = "predictions"
	}
	if config.Grace <= 0 {
		config.Grace = 24 * time.Hour
	}

	return &RedisCache{
		client:    client,
		keyPrefix: config.KeyPrefix,
		grace:     config.Grace,
		logger:    logger.With().Str("component", "redis_cache").Logger(),
		now:       time.Now,
	}
}

// WithClock replaces the clock used for expiry decisions
func (c *RedisCache) WithClock(now func() time.Time) *RedisCache {
	c.now = now
	return c
}

func (c *RedisCache) entryKeyPrefix() string {
	return c.keyPrefix + ":match:"
}

func (c *RedisCache) entryKey(matchID int64) string {
	return c.entryKeyPrefix() + strconv.FormatInt(matchID, 10)
}

func (c *RedisCache) indexKey() string {
	return c.keyPrefix + ":expiry"
}

// Put inserts or fully overwrites the prediction for matchID, valid for ttl
func (c *RedisCache) Put(ctx context.Context, matchID int64, prediction *models.HybridPrediction, ttl time.Duration) error {
	now := c.now().UTC().Truncate(time.Millisecond)
	entry := models.CacheEntry{
		MatchID:   matchID,
		Payload:   *prediction,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl).Truncate(time.Millisecond),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal prediction: %w", models.ErrCacheWrite, err)
	}

	// The logical expiry is enforced by Get and EvictExpired; the native
	// expiry only bounds keys that are never swept.
	retention := c.grace
	if ttl > 0 {
		retention += ttl
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.entryKey(matchID), data, retention)
	pipe.ZAdd(ctx, c.indexKey(), redis.Z{
		Score:  float64(entry.ExpiresAt.UnixMilli()),
		Member: strconv.FormatInt(matchID, 10),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: failed to set in Redis: %w", models.ErrCacheWrite, err)
	}

	c.logger.Debug().
		Int64("match_id", matchID).
		Dur("ttl", ttl).
		Time("expires_at", entry.ExpiresAt).
		Msg("cached prediction")

	return nil
}

// Get returns the cached prediction, or models.ErrPredictionNotReady when the
// entry is missing or expired. Reads never delete.
func (c *RedisCache) Get(ctx context.Context, matchID int64) (*models.HybridPrediction, error) {
	data, err := c.client.Get(ctx, c.entryKey(matchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, models.ErrPredictionNotReady
	} else if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to get from Redis: %w", err)
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to unmarshal prediction: %w", err)
	}

	if entry.Expired(c.now()) {
		metrics.CacheLookups.WithLabelValues("expired").Inc()
		return nil, models.ErrPredictionNotReady
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &entry.Payload, nil
}

// EvictExpired deletes all entries with expiresAt < now and returns how many were removed
func (c *RedisCache) EvictExpired(ctx context.Context) (int, error) {
	now := c.now().UTC().Truncate(time.Millisecond)

	removed, err := evictScript.Run(ctx, c.client,
		[]string{c.indexKey()},
		now.UnixMilli(), c.entryKeyPrefix(),
	).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to evict expired predictions: %w", err)
	}

	metrics.CacheEvictions.Add(float64(removed))
	if removed > 0 {
		c.logger.Info().
			Int("removed", removed).
			Msg("evicted expired predictions")
	}

	return removed, nil
}

// Delete removes the entry for matchID if present
func (c *RedisCache) Delete(ctx context.Context, matchID int64) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, c.entryKey(matchID))
	pipe.ZRem(ctx, c.indexKey(), strconv.FormatInt(matchID, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete prediction: %w", err)
	}
	return nil
}

// Size returns the number of indexed entries, expired or not
func (c *RedisCache) Size(ctx context.Context) (int64, error) {
	n, err := c.client.ZCard(ctx, c.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}
	return n, nil
}

// Ping checks Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
