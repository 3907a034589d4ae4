// Package pool lends database connections to one request at a time and
// bounds how many are open against the backing store.
package pool

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/entrystore/internal/common"
	"github.com/dmitrijs2005/entrystore/internal/dbx"
	"github.com/dmitrijs2005/entrystore/internal/logging"
	"github.com/dmitrijs2005/entrystore/internal/server/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Pool hands out leased connections. The zero value is not usable; build
// one with Open or New.
type Pool struct {
	db             *sql.DB
	acquireTimeout time.Duration
	logger         logging.Logger
	closeBackend   func()
}

// Open connects to PostgreSQL through a pgxpool bounded by cfg.MaxConns and
// cfg.MinConns, exposes it as *sql.DB and pings it once. Any failure to
// reach the store is reported as common.ErrPoolUnavailable.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pcfg.MaxConns = cfg.MaxConns
	pcfg.MinConns = cfg.MinConns

	backend, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPoolUnavailable, err)
	}

	p := New(stdlib.OpenDBFromPool(backend), cfg.AcquireTimeout, logger)
	p.closeBackend = backend.Close

	pingCtx, cancel := context.WithTimeout(ctx, cfg.AcquireTimeout)
	defer cancel()
	if err := p.db.PingContext(pingCtx); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("%w: %w", common.ErrPoolUnavailable, err)
	}

	p.logger.Info(ctx, "connection pool ready", "max_conns", cfg.MaxConns, "min_conns", cfg.MinConns)
	return p, nil
}

// New wraps an already opened *sql.DB. Its SetMaxOpenConns setting is the
// bound on concurrent leases.
func New(db *sql.DB, acquireTimeout time.Duration, logger logging.Logger) *Pool {
	return &Pool{
		db:             db,
		acquireTimeout: acquireTimeout,
		logger:         logger.With("module", "pool"),
	}
}

// DB returns the underlying handle, for startup work such as migrations.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Acquire leases one connection. It waits at most the configured acquire
// timeout for a free connection and does not retry; failure is reported as
// common.ErrPoolUnavailable. The caller must Release the lease.
func (p *Pool) Acquire(ctx context.Context) (*Lease, error) {
	actx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	conn, err := p.db.Conn(actx)
	if err != nil {
		p.logger.Warn(ctx, "connection acquire failed", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrPoolUnavailable, err)
	}
	return &Lease{conn: conn, logger: p.logger}, nil
}

// WithConn leases a connection for the duration of fn. The connection is
// returned to the pool on every exit path, including a panic in fn.
func (p *Pool) WithConn(ctx context.Context, fn func(ctx context.Context, conn dbx.DBTX) error) error {
	lease, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer lease.Release()

	return fn(ctx, lease.Conn())
}

// Stats reports open, in-use and idle connection counts.
func (p *Pool) Stats() sql.DBStats {
	return p.db.Stats()
}

// Close closes the handle and, when opened with Open, the pgx pool behind it.
func (p *Pool) Close() error {
	err := p.db.Close()
	if p.closeBackend != nil {
		p.closeBackend()
	}
	return err
}

// Lease is one connection owned exclusively by its borrower until Release.
type Lease struct {
	conn   *sql.Conn
	logger logging.Logger
	once   sync.Once
}

// Conn returns the leased connection.
func (l *Lease) Conn() dbx.DBTX {
	return l.conn
}

// Release returns the connection to the pool. Calling it more than once is
// harmless.
func (l *Lease) Release() {
	l.once.Do(func() {
		if err := l.conn.Close(); err != nil {
			l.logger.Warn(context.Background(), "connection release failed", "error", err)
		}
	})
}
