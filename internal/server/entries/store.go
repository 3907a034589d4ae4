// Package entries implements the entry store: the data operations behind
// every route, the fingerprinting of writes and the position resolvers.
//
// Every operation runs on a connection leased by the caller. Results are
// tagged by error value: nil for success, common.ErrorNotFound when no row
// matches, and an error wrapping common.ErrStoreUnavailable for any store
// failure. Turning these into response bodies is left to the transport.
package entries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/entrystore/internal/common"
	"github.com/dmitrijs2005/entrystore/internal/dbx"
	"github.com/dmitrijs2005/entrystore/internal/logging"
	"github.com/dmitrijs2005/entrystore/internal/server/fingerprint"
	"github.com/dmitrijs2005/entrystore/internal/server/models"
	"github.com/dmitrijs2005/entrystore/internal/server/repositories/repomanager"
)

// Store runs entry operations against a leased connection.
type Store struct {
	repos  repomanager.RepositoryManager
	logger logging.Logger
	now    func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of write timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore builds a Store that obtains repositories from repos.
func NewStore(repos repomanager.RepositoryManager, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		repos:  repos,
		logger: logger.With("module", "entry_store"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp reads the clock once per write. The value is cut to the
// microsecond precision of timestamptz so the hashed and stored times agree.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrStoreUnavailable, err)
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context, conn dbx.DBTX) (int64, error) {
	n, err := s.repos.Entries(conn).Count(ctx)
	if err != nil {
		return 0, unavailable("count", err)
	}
	return n, nil
}

// Create stores a new entry with the current time and its fingerprint.
// A nil payload is stored as NULL and fingerprinted as an empty string.
func (s *Store) Create(ctx context.Context, conn dbx.DBTX, payload *string) (*models.Entry, error) {
	num := s.timestamp()
	hash := fingerprint.Fingerprint(deref(payload), num)

	e, err := s.repos.Entries(conn).Insert(ctx, payload, num, hash)
	if err != nil {
		return nil, unavailable("create", err)
	}
	s.logger.Debug(ctx, "entry created", "id", e.ID, "hash", e.Hash)
	return e, nil
}

// GetOne returns the entry with the given id, or common.ErrorNotFound.
func (s *Store) GetOne(ctx context.Context, conn dbx.DBTX, id int64) (*models.Entry, error) {
	e, err := s.repos.Entries(conn).SelectByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, unavailable("get", err)
	}
	return e, nil
}

// GetRange returns up to common.RangeLimit entries with start <= num < end,
// in no particular order. An empty window yields common.ErrorNotFound.
func (s *Store) GetRange(ctx context.Context, conn dbx.DBTX, start, end time.Time) ([]*models.Entry, error) {
	list, err := s.repos.Entries(conn).SelectRange(ctx, start, end, common.RangeLimit)
	if err != nil {
		return nil, unavailable("get range", err)
	}
	if len(list) == 0 {
		return nil, common.ErrorNotFound
	}
	return list, nil
}

// Edit replaces the payload of one entry, stamping it with the current time
// and a fresh fingerprint in a single update. It returns the entry as
// stored, or common.ErrorNotFound.
func (s *Store) Edit(ctx context.Context, conn dbx.DBTX, id int64, payload *string) (*models.Entry, error) {
	num := s.timestamp()
	hash := fingerprint.Fingerprint(deref(payload), num)

	e, err := s.repos.Entries(conn).Update(ctx, id, payload, num, hash)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, unavailable("edit", err)
	}
	s.logger.Debug(ctx, "entry edited", "id", e.ID, "hash", e.Hash)
	return e, nil
}

// DeleteOne removes the entry with the given id and reports the number of
// rows removed. Zero is a normal result.
func (s *Store) DeleteOne(ctx context.Context, conn dbx.DBTX, id int64) (int64, error) {
	n, err := s.repos.Entries(conn).DeleteByID(ctx, id)
	if err != nil {
		return 0, unavailable("delete", err)
	}
	return n, nil
}

// DeleteRange removes every entry with start <= num < end.
func (s *Store) DeleteRange(ctx context.Context, conn dbx.DBTX, start, end time.Time) (int64, error) {
	n, err := s.repos.Entries(conn).DeleteRange(ctx, start, end)
	if err != nil {
		return 0, unavailable("delete range", err)
	}
	return n, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
