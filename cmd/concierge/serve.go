// cmd/concierge/serve.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trip-concierge/internal/app"
	"trip-concierge/internal/common/config"
	"trip-concierge/internal/server"
)

var (
	listenAddress  string
	allowedOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat HTTP API with health, readiness and metrics endpoints",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddress, "address", "", "listen address (overrides server.address)")
	serveCmd.Flags().StringSliceVar(&allowedOrigins, "cors-origin", nil, "allowed CORS origin, repeatable")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	log.Info("Starting concierge...", map[string]interface{}{
		"version":     version,
		"environment": cfg.App.Environment,
		"catalog":     cfg.Catalog.Source,
		"memory":      cfg.Memory.Backend,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("shutdown: close failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	srvCfg := server.DefaultConfig()
	srvCfg.Address = cfg.Server.Address
	if listenAddress != "" {
		srvCfg.Address = listenAddress
	}
	if cfg.Server.ShutdownTimeout > 0 {
		srvCfg.ShutdownTimeout = config.GetDuration(cfg.Server.ShutdownTimeout)
	}
	srvCfg.AllowedOrigins = allowedOrigins

	if err := server.New(srvCfg, a.Dispatcher, a.Checks, log).Run(ctx); err != nil {
		log.Error("HTTP server stopped with error", map[string]interface{}{"error": err.Error()})
		return err
	}

	log.Info("Shutdown complete", nil)
	return nil
}
