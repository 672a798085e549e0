package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-console/internal/console"
	"go-inventory-console/internal/fixture"
	"go-inventory-console/internal/metrics"
	"go-inventory-console/pkg/config"
	"go-inventory-console/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(cfg)
	defer log.Sync()

	mode := "remote"
	if cfg.Client.UseLocal {
		mode = "local"
	}
	log.Info("Starting console",
		zap.String("mode", mode),
		zap.String("backend", cfg.Client.BaseURL),
		zap.Bool("fallback", cfg.Client.FallbackLocal),
	)

	srv := console.New(console.Options{
		Config:   cfg,
		Logger:   log,
		Metrics:  metrics.New(prometheus.NewRegistry(), cfg.Metrics.Prefix),
		Fixtures: fixture.New(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx, ":"+cfg.Server.ConsolePort); err != nil {
		log.Fatal("Console stopped", zap.Error(err))
	}
	log.Info("Console exited")
}
