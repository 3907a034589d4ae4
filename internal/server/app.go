// Package server wires configuration, the connection pool, migrations, the
// entry store and the HTTP endpoint together and runs them until a
// termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/entrystore/internal/logging"
	"github.com/dmitrijs2005/entrystore/internal/server/config"
	"github.com/dmitrijs2005/entrystore/internal/server/entries"
	"github.com/dmitrijs2005/entrystore/internal/server/httpapi"
	"github.com/dmitrijs2005/entrystore/internal/server/pool"
	"github.com/dmitrijs2005/entrystore/internal/server/repositories/repomanager"
)

type App struct {
	config *config.Config
	logger logging.Logger
	pool   *pool.Pool
	http   *httpapi.Server
}

// NewApp opens the pool, applies migrations when configured and builds the
// HTTP server. The pool is closed again if any later step fails.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel))

	p, err := pool.Open(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if c.RunMigrations {
		if err := rm.RunMigrations(ctx, p.DB()); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
	}

	store := entries.NewStore(rm, logger)
	srv := httpapi.NewServer(c.EndpointAddrHTTP, logger, p, store, c.ShutdownTimeout)

	return &App{config: c, logger: logger, pool: p, http: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until a signal arrives or the server fails, then closes
// the pool.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	err := app.http.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}

	stats := app.pool.Stats()
	app.logger.Info(ctx, "Closing connection pool", "open", stats.OpenConnections, "in_use", stats.InUse, "idle", stats.Idle)
	if cerr := app.pool.Close(); cerr != nil {
		app.logger.Error(ctx, "pool close error", "error", cerr)
	}

	return err
}
