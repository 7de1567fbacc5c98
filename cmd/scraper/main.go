package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/config"
	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/database"
	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/provider"
	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/scrape"
	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/version"
	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/scraper.yaml", "path to config file")
	tickers := flag.String("tickers", "", "comma-separated symbols, e.g. BTC-USD,ETH-USD")
	period := flag.String("period", "", "lookback period (default from config, e.g. 7d)")
	interval := flag.String("interval", "", "sampling interval (default from config, e.g. 1h)")
	every := flag.Duration("every", 0, "rerun on this interval instead of exiting (e.g. 1h)")
	flag.Parse()

	// .env is optional; real settings come from the YAML config.
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *tickers == "" {
		logger.Error("missing required -tickers")
		flag.Usage()
		os.Exit(2)
	}
	symbols := strings.Split(*tickers, ",")

	logger.Info("starting scraper",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *period == "" {
		*period = cfg.Scraper.Period
	}
	if *interval == "" {
		*interval = cfg.Scraper.Interval
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

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	client := provider.NewClient(
		cfg.Provider.BaseURL,
		provider.WithLogger(logger),
		provider.WithTimeout(cfg.Provider.Timeout),
		provider.WithRetries(cfg.Provider.MaxRetries, 2*time.Second),
		provider.WithRateLimit(cfg.Provider.RPS),
	)

	w := writer.New(writer.WriterConfig{
		Table:     cfg.Scraper.Table,
		BatchSize: cfg.Scraper.BatchSize,
	}, pool, logger)

	orch := scrape.New(
		scrape.Config{Source: cfg.Scraper.Source},
		client,
		w,
		scrape.NewHTTPReporter(cfg.Scraper.MetricsURL),
		logger,
	)

	run := func() {
		summary, err := orch.Run(ctx, symbols, *period, *interval)
		if err != nil {
			logger.Error("run failed to start", "error", err)
			os.Exit(1)
		}
		json.NewEncoder(os.Stdout).Encode(summary)
	}

	run()
	if *every <= 0 {
		return
	}

	ticker := time.NewTicker(*every)
	defer ticker.Stop()
	logger.Info("rerunning on interval", "every", *every)
	for {
		select {
		case <-ctx.Done():
			logger.Info("scraper stopped")
			return
		case <-ticker.C:
			run()
		}
	}
}
