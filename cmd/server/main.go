// Package main - Entry point for the toll-tracker API server
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"toll-tracker/internal/app"
	"toll-tracker/internal/config"
	"toll-tracker/internal/logging"
)

func main() {
	cfgFile := flag.String("config", "", "config file")
	addr := flag.String("addr", "", "server address (default from config server.address)")
	data := flag.String("data", "", "HCL dataset (default from config data.path)")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()
	gin.SetMode(gin.ReleaseMode)

	engine, err := app.NewEngine(cfg, *data, logging.Logger)
	if err != nil {
		logging.Logger.Fatal("failed to start", zap.Error(err))
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("toll-tracker server", zap.String("version", app.Version), zap.String("address", cfg.Server.Address))
	if err := app.Serve(ctx, engine, cfg, logging.Logger); err != nil {
		logging.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
	logging.Info("server exiting")
}
