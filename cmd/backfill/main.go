package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"strings"
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
	days := flag.Int("days", 360, "number of days to backfill")
	end := flag.String("end", "", "final date inclusive, YYYY-MM-DD (default today UTC)")
	flag.Parse()

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

	endDate := time.Now().UTC()
	if *end != "" {
		parsed, err := time.Parse("2006-01-02", *end)
		if err != nil {
			logger.Error("invalid -end date", "value", *end, "error", err)
			os.Exit(1)
		}
		endDate = parsed
	}

	logger.Info("starting backfill",
		"version", version.Version,
		"days", *days,
		"end", endDate.Format("2006-01-02"),
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

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
		// A daily backfill can run well under the hourly scrape's ceiling.
		provider.WithRateLimit(min(cfg.Provider.RPS, 1.0)),
	)

	w := writer.New(writer.WriterConfig{
		Table:     cfg.Scraper.Table,
		BatchSize: cfg.Scraper.BatchSize,
	}, pool, logger)

	orch := scrape.New(
		scrape.Config{Source: cfg.Scraper.Source, FlowName: "backfill"},
		client,
		w,
		scrape.NewHTTPReporter(cfg.Scraper.MetricsURL),
		logger,
	)

	summary, err := orch.RunBackfill(ctx, symbols, *days, endDate)
	if err != nil {
		logger.Error("backfill failed to start", "error", err)
		os.Exit(1)
	}
	json.NewEncoder(os.Stdout).Encode(summary)
}
