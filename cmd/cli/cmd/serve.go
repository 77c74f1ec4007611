package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"toll-tracker/internal/app"
	"toll-tracker/internal/config"
	"toll-tracker/internal/logging"
)

var (
	serveAddr     string
	serveDataFile string
)

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the toll API over HTTP",
	Long: `Serve the toll API until interrupted (SIGINT or SIGTERM), then shut
down gracefully.

Endpoints:
  GET  /health
  GET  /api/v1/dates/{date}/exempt
  GET  /api/v1/vehicles/{type}/exempt
  POST /api/v1/fees
  POST /api/v1/reports`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		if serveAddr != "" {
			cfg.Server.Address = serveAddr
		}
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		engine, err := app.NewEngine(cfg, serveDataFile, logging.Logger)
		if err != nil {
			return err
		}
		defer engine.Close()

		return app.Serve(cmd.Context(), engine, cfg, logging.Logger)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config server.address)")
	serveCmd.Flags().StringVar(&serveDataFile, "data", "", "HCL dataset (default from config data.path)")
}
