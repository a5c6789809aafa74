package codes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postgate/internal/common"
	"github.com/dmitrijs2005/postgate/internal/dbx"
	"github.com/dmitrijs2005/postgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, code *models.PendingCode) error {
	query := `
		INSERT INTO verification_codes (account_id, purpose, digest, issued_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, purpose)
		DO UPDATE SET digest = EXCLUDED.digest, issued_at = EXCLUDED.issued_at
	`
	if _, err := r.db.ExecContext(ctx, query, code.AccountID, string(code.Purpose), code.Digest, code.IssuedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, accountID string, purpose models.CodePurpose, forUpdate bool) (*models.PendingCode, error) {
	query := `
		SELECT digest, issued_at
		FROM verification_codes
		WHERE account_id = $1 AND purpose = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}

	code := &models.PendingCode{AccountID: accountID, Purpose: purpose}
	if err := r.db.QueryRowContext(ctx, query, accountID, string(purpose)).Scan(&code.Digest, &code.IssuedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrCodeNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return code, nil
}

// Delete is idempotent: removing an absent code is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, accountID string, purpose models.CodePurpose) error {
	query := `
		DELETE FROM verification_codes
		WHERE account_id = $1 AND purpose = $2
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, string(purpose)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
