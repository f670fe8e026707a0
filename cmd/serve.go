package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reelforge/reelforge/internal/api"
	"github.com/reelforge/reelforge/internal/log"
)

var serveJSONLogs bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveJSONLogs, "json-logs", true, "emit logs as JSON")
	rootCmd.AddCommand(serveCmd)
}

// runServe initializes the pipeline and starts the HTTP API server.
func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := log.New(log.Config{Level: slog.LevelInfo, JSON: serveJSONLogs})
	logger.Info("starting reelforge", "version", AppVersion)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	server := api.NewServer(api.ServerConfig{
		Logger:      logger,
		Generator:   p.generator,
		Publisher:   p.publisher,
		Credentials: p.source,
		CORSOrigins: cfg.CORSOrigins,
		TrustProxy:  cfg.TrustProxy,
		RateBurst:   cfg.RateBurst,
	})

	logger.Info("HTTP server ready",
		"addr", cfg.Addr,
		"api", "/api/v1/*",
		"health", "/health, /ready",
	)

	if err := server.Run(ctx, cfg.Addr); err != nil {
		return fmt.Errorf("HTTP server: %w", err)
	}
	return nil
}
