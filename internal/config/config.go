package config

import "time"

// Config is the root configuration for the pipeline binaries.
type Config struct {
	Database  DBConfig        `yaml:"database"`
	Provider  ProviderConfig  `yaml:"provider"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Collector CollectorConfig `yaml:"collector"`
}

// DBConfig holds warehouse connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ProviderConfig holds quote-provider client settings.
type ProviderConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RPS        float64       `yaml:"rps"`
}

// ScraperConfig holds per-run pipeline settings.
type ScraperConfig struct {
	Period     string `yaml:"period"`      // lookback window, e.g. "7d"
	Interval   string `yaml:"interval"`    // sampling interval, e.g. "1h"
	Source     string `yaml:"source"`      // source label written on every row
	Table      string `yaml:"table"`       // warehouse table name
	BatchSize  int    `yaml:"batch_size"`  // rows per upsert batch
	MetricsURL string `yaml:"metrics_url"` // collector ingest endpoint
}

// CollectorConfig holds metrics collector HTTP settings.
type CollectorConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
