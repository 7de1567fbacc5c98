package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/collector"
	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/config"
	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/collector.yaml", "path to config file")
	flag.Parse()

	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting collector",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// The collector runs without a database; only the HTTP section
	// matters, so a missing config file just means defaults.
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		logger.Info("config file not found, using defaults", "path", *configPath)
		cfg = config.Default()
	}

	metrics := collector.NewMetrics()
	srv := collector.NewServer(metrics, cfg.Collector.Path, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Collector.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	go func() {
		logger.Info("collector listening",
			"port", cfg.Collector.Port,
			"metrics_path", cfg.Collector.Path,
		)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)

	logger.Info("collector stopped")
}
