package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postgate/internal/common"
	"github.com/dmitrijs2005/postgate/internal/dbx"
	"github.com/dmitrijs2005/postgate/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an unverified account. A duplicate email yields
// common.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, email, passwordHash string) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, status, created_at, updated_at`

	a := &models.Account{Email: email}
	err := r.db.QueryRowContext(ctx, query, email, passwordHash).
		Scan(&a.ID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string, withPassword bool) (*models.Account, error) {
	return r.get(ctx, "lower(email) = lower($1)", email, withPassword)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string, withPassword bool) (*models.Account, error) {
	return r.get(ctx, "id = $1", id, withPassword)
}

func (r *PostgresRepository) get(ctx context.Context, where string, arg any, withPassword bool) (*models.Account, error) {
	a := &models.Account{}
	dest := []any{&a.ID, &a.Email, &a.Status, &a.CreatedAt, &a.UpdatedAt}

	cols := "id, email, status, created_at, updated_at"
	if withPassword {
		cols += ", password_hash"
		dest = append(dest, &a.PasswordHash)
	}

	query := fmt.Sprintf("SELECT %s FROM accounts WHERE %s", cols, where)
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrAccountNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query :=
		`UPDATE accounts SET password_hash = $1, updated_at = now()
		 WHERE id = $2`

	return r.execOne(ctx, query, passwordHash, id)
}

// MarkVerified moves the account to the verified state. Calling it on an
// already verified account is a no-op.
func (r *PostgresRepository) MarkVerified(ctx context.Context, id string) error {
	query :=
		`UPDATE accounts SET status = 'verified', updated_at = now()
		 WHERE id = $1`

	return r.execOne(ctx, query, id)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrAccountNotFound
	}
	return nil
}
