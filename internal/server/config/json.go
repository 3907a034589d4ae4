package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/entrystore/internal/flagx"
	"github.com/dmitrijs2005/entrystore/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Durations
// accept both "5s" strings and integer nanoseconds. Pointer fields
// distinguish "absent" from a zero value.
type JsonConfig struct {
	EndpointAddrHTTP string          `json:"endpoint_addr_http"`
	DatabaseDSN      string          `json:"database_dsn"`
	MaxConns         *int32          `json:"max_conns"`
	MinConns         *int32          `json:"min_conns"`
	AcquireTimeout   *timex.Duration `json:"acquire_timeout"`
	ShutdownTimeout  *timex.Duration `json:"shutdown_timeout"`
	RunMigrations    *bool           `json:"run_migrations"`
	LogLevel         string          `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, and copies the
// fields it sets into config. An unreadable or invalid file panics.
func parseJson(config *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.MaxConns != nil {
		config.MaxConns = *c.MaxConns
	}
	if c.MinConns != nil {
		config.MinConns = *c.MinConns
	}
	if c.AcquireTimeout != nil {
		config.AcquireTimeout = c.AcquireTimeout.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.RunMigrations != nil {
		config.RunMigrations = *c.RunMigrations
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
