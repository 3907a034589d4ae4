package config

import "os"

// Environment variables read by parseEnv.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvAddress     = "ADDRESS"
	EnvLogLevel    = "LOG_LEVEL"
)

// parseEnv overlays non-empty environment variables onto config.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv(EnvDatabaseURL); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvAddress); ok && v != "" {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		config.LogLevel = v
	}
}
