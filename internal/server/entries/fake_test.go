package entries

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/entrystore/internal/common"
	"github.com/dmitrijs2005/entrystore/internal/dbx"
	"github.com/dmitrijs2005/entrystore/internal/server/models"
	repo "github.com/dmitrijs2005/entrystore/internal/server/repositories/entries"
)

// memManager is an in-memory stand-in for the PostgreSQL manager. Rows
// live in the manager so every leased "connection" sees the same table.
type memManager struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Entry
	err    error
}

func newMemManager() *memManager {
	return &memManager{rows: make(map[int64]*models.Entry)}
}

func (m *memManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *memManager) Entries(dbx.DBTX) repo.Repository { return &memRepo{m: m} }

type memRepo struct {
	m *memManager
}

func clone(e *models.Entry) *models.Entry {
	c := *e
	if e.Opt != nil {
		s := *e.Opt
		c.Opt = &s
	}
	return &c
}

func (r *memRepo) Count(context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return 0, r.m.err
	}
	return int64(len(r.m.rows)), nil
}

func (r *memRepo) Insert(_ context.Context, opt *string, num time.Time, hash string) (*models.Entry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return nil, r.m.err
	}
	r.m.nextID++
	e := &models.Entry{ID: r.m.nextID, Opt: opt, Num: num, Hash: hash}
	r.m.rows[e.ID] = clone(e)
	return clone(e), nil
}

func (r *memRepo) SelectByID(_ context.Context, id int64) (*models.Entry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return nil, r.m.err
	}
	e, ok := r.m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(e), nil
}

func (r *memRepo) SelectRange(_ context.Context, start, end time.Time, limit int) ([]*models.Entry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return nil, r.m.err
	}
	var out []*models.Entry
	for _, e := range r.m.rows {
		if !e.Num.Before(start) && e.Num.Before(end) {
			out = append(out, clone(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, id int64, opt *string, num time.Time, hash string) (*models.Entry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return nil, r.m.err
	}
	if _, ok := r.m.rows[id]; !ok {
		return nil, common.ErrorNotFound
	}
	e := &models.Entry{ID: id, Opt: opt, Num: num, Hash: hash}
	r.m.rows[id] = clone(e)
	return clone(e), nil
}

func (r *memRepo) DeleteByID(_ context.Context, id int64) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return 0, r.m.err
	}
	if _, ok := r.m.rows[id]; !ok {
		return 0, nil
	}
	delete(r.m.rows, id)
	return 1, nil
}

func (r *memRepo) DeleteRange(_ context.Context, start, end time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return 0, r.m.err
	}
	var n int64
	for id, e := range r.m.rows {
		if !e.Num.Before(start) && e.Num.Before(end) {
			delete(r.m.rows, id)
			n++
		}
	}
	return n, nil
}
