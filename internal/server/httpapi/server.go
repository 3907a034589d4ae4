// Package httpapi exposes the entry store over plain-text HTTP. It leases
// one pooled connection per request and turns store outcomes into response
// bodies, including the literal "Error" and "Error!" sentinels clients
// expect.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/entrystore/internal/dbx"
	"github.com/dmitrijs2005/entrystore/internal/logging"
	"github.com/dmitrijs2005/entrystore/internal/server/models"
)

// ConnPool lends a connection for the duration of fn.
type ConnPool interface {
	WithConn(ctx context.Context, fn func(ctx context.Context, conn dbx.DBTX) error) error
}

// EntryStore is the set of data operations the routes call.
type EntryStore interface {
	Count(ctx context.Context, conn dbx.DBTX) (int64, error)
	Create(ctx context.Context, conn dbx.DBTX, payload *string) (*models.Entry, error)
	GetOne(ctx context.Context, conn dbx.DBTX, id int64) (*models.Entry, error)
	GetRange(ctx context.Context, conn dbx.DBTX, start, end time.Time) ([]*models.Entry, error)
	Edit(ctx context.Context, conn dbx.DBTX, id int64, payload *string) (*models.Entry, error)
	DeleteOne(ctx context.Context, conn dbx.DBTX, id int64) (int64, error)
	DeleteRange(ctx context.Context, conn dbx.DBTX, start, end time.Time) (int64, error)
}

type Server struct {
	address         string
	pool            ConnPool
	store           EntryStore
	logger          logging.Logger
	shutdownTimeout time.Duration
	now             func() time.Time
}

func NewServer(address string, l logging.Logger, pool ConnPool, store EntryStore, shutdownTimeout time.Duration) *Server {
	return &Server{
		address:         address,
		pool:            pool,
		store:           store,
		logger:          l.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
		now:             time.Now,
	}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleList)
	mux.HandleFunc("POST /{$}", s.handleCreate)
	mux.HandleFunc("GET /count", s.handleCount)
	mux.HandleFunc("GET /{i}", s.handleFetch)
	mux.HandleFunc("PUT /{i}", s.handleEdit)
	mux.HandleFunc("GET /rm/{i}", s.handleRemove)
	mux.HandleFunc("DELETE /range", s.handleRemoveRange)

	return s.withRequestLog(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
