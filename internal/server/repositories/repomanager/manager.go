package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/entrystore/internal/dbx"
	"github.com/dmitrijs2005/entrystore/internal/server/repositories/entries"
)

// RepositoryManager vends repositories bound to a caller-supplied handle
// and owns the schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Entries(db dbx.DBTX) entries.Repository
}
