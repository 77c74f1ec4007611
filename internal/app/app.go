// Package app wires configuration into a running toll engine. It is shared
// by the CLI and the standalone server.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"toll-tracker/adapters/cache"
	"toll-tracker/adapters/dataset"
	"toll-tracker/adapters/holidayapi"
	"toll-tracker/adapters/holidaycal"
	apihttp "toll-tracker/adapters/http"
	"toll-tracker/core/holiday"
	"toll-tracker/core/toll"
	"toll-tracker/internal/config"
	"toll-tracker/internal/logging"
)

// Version is the tool version
var Version = "0.1.0"

// ShutdownTimeout bounds graceful shutdown of the HTTP server
const ShutdownTimeout = 10 * time.Second

// Engine is a service bound to a loaded dataset
type Engine struct {
	Service *toll.Service
	Dataset *dataset.Dataset

	cleanup func()
}

// Close releases connections held by the holiday source
func (e *Engine) Close() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

// BuildOracle returns the configured holiday source, wrapped in the redis
// cache when enabled. The returned func releases the redis client.
func BuildOracle(cfg *config.Config, logger *zap.Logger) (holiday.Oracle, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger = logging.OrGlobal(logger)

	var oracle holiday.Oracle
	switch cfg.Holiday.Source {
	case config.SourceCalendar:
		oracle = holidaycal.New()
	default:
		oracle = holidayapi.New(&holidayapi.Config{
			BaseURL:   cfg.HolidayAPI.BaseURL,
			Timeout:   cfg.HolidayAPI.Timeout(),
			UserAgent: "toll-tracker/" + Version,
		}, nil)
	}
	logger.Debug("holiday source", zap.String("source", cfg.Holiday.Source))

	cleanup := func() {}
	if cfg.Holiday.Cache.Enabled {
		client := cache.NewRedisClient(cache.RedisConfig{
			Addr:        cfg.Holiday.Cache.RedisAddr,
			DialTimeout: 2 * time.Second,
		})
		oracle = cache.NewOracle(oracle, client, cfg.Holiday.Cache.TTL(), cfg.Holiday.Cache.KeyPrefix, logger)
		cleanup = func() { _ = client.Close() }
		logger.Debug("holiday cache enabled", zap.String("redis_addr", cfg.Holiday.Cache.RedisAddr))
	}

	return oracle, cleanup, nil
}

// NewEngine loads the dataset at dataPath (cfg.Data.Path when empty) and
// builds a service over it
func NewEngine(cfg *config.Config, dataPath string, logger *zap.Logger) (*Engine, error) {
	if dataPath == "" {
		dataPath = cfg.Data.Path
	}

	ds, err := dataset.NewLoader(time.Local).LoadFile(dataPath)
	if err != nil {
		return nil, err
	}

	oracle, cleanup, err := BuildOracle(cfg, logger)
	if err != nil {
		return nil, err
	}

	resolver := holiday.NewResolver(oracle, logger)
	return &Engine{
		Service: toll.NewService(resolver, ds.Table, ds.Currency, logger),
		Dataset: ds,
		cleanup: cleanup,
	}, nil
}

// Serve runs the HTTP API until ctx is cancelled, then shuts it down gracefully
func Serve(ctx context.Context, engine *Engine, cfg *config.Config, logger *zap.Logger) error {
	adapter := apihttp.New(engine.Service, engine.Dataset.Passages, &apihttp.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		MaxBodySize:  1 << 20,
	}, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(adapter.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return adapter.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
