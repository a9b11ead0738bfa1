package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/sportdata-hub/internal/app"
	"github.com/riskibarqy/sportdata-hub/internal/config"
	"github.com/riskibarqy/sportdata-hub/internal/observability"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewService(cfg.ServiceName, cfg.AppEnv, cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownObservability, err := observability.Setup(cfg, logger)
	if err != nil {
		logger.Error("init observability", "error", err)
		os.Exit(1)
	}

	srv, cleanup, err := app.NewHTTPServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		_ = shutdownObservability(context.Background())
		os.Exit(1)
	}

	runErr := app.Run(ctx, cfg, srv, logger)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := cleanup(shutdownCtx); err != nil {
		logger.Error("release resources", "error", err)
	}
	if err := shutdownObservability(shutdownCtx); err != nil {
		logger.Error("shutdown observability", "error", err)
	}

	if runErr != nil {
		logger.Error("http server stopped with error", "error", runErr)
		cancel()
		os.Exit(1)
	}
}
