// Package http exposes the toll engine as a JSON API.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toll-tracker/core/toll"
	"toll-tracker/core/types"
	"toll-tracker/internal/logging"
)

// Config holds HTTP adapter configuration
type Config struct {
	// Address to listen on
	Address string `json:"address"`

	// ReadTimeout for requests
	ReadTimeout time.Duration `json:"read_timeout"`

	// WriteTimeout for responses
	WriteTimeout time.Duration `json:"write_timeout"`

	// MaxBodySize limits request body size
	MaxBodySize int64 `json:"max_body_size"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Address:      ":8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		MaxBodySize:  1 << 20,
	}
}

// Adapter is the HTTP adapter
type Adapter struct {
	service  *toll.Service
	passages []types.Passage
	config   *Config
	logger   *zap.Logger
	router   *gin.Engine
	server   *http.Server
}

// New creates an adapter serving service. Daily reports are computed over passages.
func New(service *toll.Service, passages []types.Passage, config *Config, logger *zap.Logger) *Adapter {
	if config == nil {
		config = DefaultConfig()
	}

	a := &Adapter{
		service:  service,
		passages: passages,
		config:   config,
		logger:   logging.OrGlobal(logger).Named("http"),
	}
	a.router = a.routes()
	a.server = &http.Server{
		Addr:         config.Address,
		Handler:      a.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
	return a
}

func (a *Adapter) routes() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(a.logger), Recovery(a.logger), BodyLimit(a.config.MaxBodySize))

	r.GET("/health", a.handleHealth)

	api := r.Group("/api/v1")
	{
		api.GET("/dates/:date/exempt", a.handleDateExempt)
		api.GET("/vehicles/:type/exempt", a.handleVehicleExempt)
		api.POST("/fees", a.handleFee)
		api.POST("/reports", a.handleReport)
	}
	return r
}

// Handler returns the router
func (a *Adapter) Handler() http.Handler {
	return a.router
}

// Start serves until Shutdown is called
func (a *Adapter) Start() error {
	a.logger.Info("starting server", zap.String("address", a.config.Address))
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (a *Adapter) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	return a.server.Shutdown(ctx)
}
