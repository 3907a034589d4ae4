package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/entrystore/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g., ":8000")
//	-d string     PostgreSQL DSN
//	-m int        maximum pool connections
//	-n int        minimum pool connections
//	-t duration   connection acquire timeout (e.g., "3s")
//	-s duration   graceful shutdown timeout (e.g., "10s")
//	-l string     log level
//	-migrate      run schema migrations at startup (use -migrate=false to skip)
//
// Arguments are filtered through flagx.FilterArgs first so that flags owned
// by other layers (-c) do not abort parsing. Malformed values panic.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-n", "-t", "-s", "-l", "-migrate"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	maxConns := fs.Int("m", int(config.MaxConns), "maximum pool connections")
	minConns := fs.Int("n", int(config.MinConns), "minimum pool connections")
	fs.DurationVar(&config.AcquireTimeout, "t", config.AcquireTimeout, "connection acquire timeout")
	fs.DurationVar(&config.ShutdownTimeout, "s", config.ShutdownTimeout, "graceful shutdown timeout")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.RunMigrations, "migrate", config.RunMigrations, "run schema migrations at startup")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.MaxConns = int32(*maxConns)
	config.MinConns = int32(*minConns)
}
