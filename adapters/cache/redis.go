// Package cache provides a redis-backed decorator for holiday oracles.
package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"toll-tracker/core/holiday"
	"toll-tracker/internal/logging"
)

// RedisConfig configures the redis connection
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedisClient creates a client from cfg
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

// Store is the subset of the redis client the cache needs
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Oracle caches successful lookups of the wrapped oracle in redis.
// Failed lookups are never cached; redis failures fall through to the wrapped oracle.
type Oracle struct {
	next   holiday.Oracle
	client Store
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewOracle wraps next
func NewOracle(next holiday.Oracle, client Store, ttl time.Duration, prefix string, logger *zap.Logger) *Oracle {
	return &Oracle{
		next:   next,
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: logging.OrGlobal(logger).Named("holiday-cache"),
	}
}

// Key returns the cache key for date
func (o *Oracle) Key(date time.Time) string {
	return o.prefix + holiday.Query(date)
}

// Lookup implements holiday.Oracle
func (o *Oracle) Lookup(ctx context.Context, date time.Time) (*holiday.Info, error) {
	key := o.Key(date)

	data, err := o.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var info holiday.Info
		if jsonErr := json.Unmarshal(data, &info); jsonErr == nil {
			o.logger.Debug("holiday cache hit", zap.String("key", key))
			return &info, nil
		}
		o.logger.Warn("discarding unreadable holiday cache entry", zap.String("key", key))
	case stderrors.Is(err, redis.Nil):
	default:
		o.logger.Warn("holiday cache read failed", zap.String("key", key), zap.Error(err))
	}

	info, err := o.next.Lookup(ctx, date)
	if err != nil || info == nil {
		return info, err
	}

	if payload, err := json.Marshal(info); err == nil {
		if err := o.client.Set(ctx, key, payload, o.ttl).Err(); err != nil {
			o.logger.Warn("holiday cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return info, nil
}

var _ holiday.Oracle = (*Oracle)(nil)
