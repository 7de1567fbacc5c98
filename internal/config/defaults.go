package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultProviderURL = "https://query1.finance.yahoo.com"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRPS         = 2.0
	DefaultDBPort      = 5432
	DefaultDBSSLMode   = "prefer"
	DefaultMaxConns    = 3
	DefaultMinConns    = 1
	DefaultPeriod      = "7d"
	DefaultInterval    = "1h"
	DefaultSource      = "yahoo_finance"
	DefaultTable       = "market_bars"
	DefaultBatchSize   = 500
	DefaultMetricsURL  = "http://localhost:9000/ingest"
	DefaultPort        = 9000
	DefaultMetricsPath = "/metrics"
)

func (c *Config) applyDefaults() {
	// Provider defaults
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = DefaultProviderURL
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = DefaultTimeout
	}
	if c.Provider.MaxRetries == 0 {
		c.Provider.MaxRetries = DefaultMaxRetries
	}
	if c.Provider.RPS == 0 {
		c.Provider.RPS = DefaultRPS
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Scraper defaults
	if c.Scraper.Period == "" {
		c.Scraper.Period = DefaultPeriod
	}
	if c.Scraper.Interval == "" {
		c.Scraper.Interval = DefaultInterval
	}
	if c.Scraper.Source == "" {
		c.Scraper.Source = DefaultSource
	}
	if c.Scraper.Table == "" {
		c.Scraper.Table = DefaultTable
	}
	if c.Scraper.BatchSize == 0 {
		c.Scraper.BatchSize = DefaultBatchSize
	}
	if c.Scraper.MetricsURL == "" {
		c.Scraper.MetricsURL = DefaultMetricsURL
	}

	// Collector defaults
	if c.Collector.Port == 0 {
		c.Collector.Port = DefaultPort
	}
	if c.Collector.Path == "" {
		c.Collector.Path = DefaultMetricsPath
	}
}
