package entries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/entrystore/internal/server/models"
)

// Repository is the SQL surface of the entries table. Lookups by id return
// common.ErrorNotFound when no row matches; deletes report affected rows
// instead.
type Repository interface {
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, opt *string, num time.Time, hash string) (*models.Entry, error)
	SelectByID(ctx context.Context, id int64) (*models.Entry, error)
	SelectRange(ctx context.Context, start, end time.Time, limit int) ([]*models.Entry, error)
	Update(ctx context.Context, id int64, opt *string, num time.Time, hash string) (*models.Entry, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteRange(ctx context.Context, start, end time.Time) (int64, error)
}
