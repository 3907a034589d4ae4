// Package entries provides the PostgreSQL-backed repository for the
// entries table.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/entrystore/internal/common"
	"github.com/dmitrijs2005/entrystore/internal/dbx"
	"github.com/dmitrijs2005/entrystore/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX, typically one
// leased connection.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.Entry, error) {
	var e models.Entry
	if err := s.Scan(&e.ID, &e.Opt, &e.Num, &e.Hash); err != nil {
		return nil, err
	}
	return &e, nil
}

// Count returns the number of rows in entries.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Insert stores a new row and returns it with the id assigned by the store.
func (r *PostgresRepository) Insert(ctx context.Context, opt *string, num time.Time, hash string) (*models.Entry, error) {
	query := `
		INSERT INTO entries (opt, num, hash)
		VALUES ($1, $2, $3)
		RETURNING id, opt, num, hash
	`
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, opt, num, hash))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// SelectByID returns the row with the given id or common.ErrorNotFound.
func (r *PostgresRepository) SelectByID(ctx context.Context, id int64) (*models.Entry, error) {
	query := `SELECT id, opt, num, hash FROM entries WHERE id = $1`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// SelectRange returns at most limit rows with start <= num < end, in no
// particular order.
func (r *PostgresRepository) SelectRange(ctx context.Context, start, end time.Time, limit int) ([]*models.Entry, error) {
	query := `SELECT id, opt, num, hash FROM entries
		WHERE num >= $1 AND num < $2
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites opt, num and hash of one row in a single statement and
// returns the row as stored, or common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, id int64, opt *string, num time.Time, hash string) (*models.Entry, error) {
	query := `
		UPDATE entries SET opt = $2, num = $3, hash = $4
		WHERE id = $1
		RETURNING id, opt, num, hash
	`
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id, opt, num, hash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// DeleteByID removes the row with the given id and reports how many rows
// went away (0 or 1).
func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return r.exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
}

// DeleteRange removes every row with start <= num < end.
func (r *PostgresRepository) DeleteRange(ctx context.Context, start, end time.Time) (int64, error) {
	return r.exec(ctx, `DELETE FROM entries WHERE num >= $1 AND num < $2`, start, end)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
