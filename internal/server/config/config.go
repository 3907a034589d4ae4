// Package config handles configuration for the entrystore server,
// including defaults, a JSON overlay, environment variables and
// command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/entrystore/internal/common"
)

// Config holds runtime settings for the entrystore server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP endpoint.
//   - DatabaseDSN: PostgreSQL connection string (pgx). Required.
//   - MaxConns / MinConns: bounds of the connection pool.
//   - AcquireTimeout: how long a request waits for a free connection.
//   - ShutdownTimeout: grace period for in-flight requests on stop.
//   - RunMigrations: apply embedded schema migrations at startup.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP string
	DatabaseDSN      string
	MaxConns         int32
	MinConns         int32
	AcquireTimeout   time.Duration
	ShutdownTimeout  time.Duration
	RunMigrations    bool
	LogLevel         string
}

// LoadDefaults populates Config with development defaults. DatabaseDSN is
// intentionally left empty: it must come from the environment, a config
// file or a flag.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.MaxConns = 10
	c.MinConns = 0
	c.AcquireTimeout = 5 * time.Second
	c.ShutdownTimeout = 10 * time.Second
	c.RunMigrations = true
	c.LogLevel = "info"
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return common.ErrMissingDSN
	}
	if c.MaxConns < 1 {
		return fmt.Errorf("max conns must be positive, got %d", c.MaxConns)
	}
	if c.MinConns < 0 || c.MinConns > c.MaxConns {
		return fmt.Errorf("min conns must be within [0, %d], got %d", c.MaxConns, c.MinConns)
	}
	if c.AcquireTimeout <= 0 {
		return fmt.Errorf("acquire timeout must be positive, got %s", c.AcquireTimeout)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line
// flags. The result is validated.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
