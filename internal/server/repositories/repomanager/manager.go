package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/postgate/internal/dbx"
	"github.com/dmitrijs2005/postgate/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/postgate/internal/server/repositories/codes"
	"github.com/dmitrijs2005/postgate/internal/server/repositories/posts"
)

// RepositoryManager vends repositories bound to a DBTX so services can use
// the same repository against *sql.DB or an open *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Codes(db dbx.DBTX) codes.Repository
	Posts(db dbx.DBTX) posts.Repository
}
