// Package codes stores the keyed digests of outstanding one-time codes, one
// row per (account, purpose).
package codes

import (
	"context"

	"github.com/dmitrijs2005/postgate/internal/server/models"
)

type Repository interface {
	// Upsert replaces any outstanding code for the same account and purpose.
	Upsert(ctx context.Context, code *models.PendingCode) error
	// Get returns common.ErrCodeNotFound when nothing is outstanding. With
	// forUpdate the row stays locked until the surrounding transaction ends.
	Get(ctx context.Context, accountID string, purpose models.CodePurpose, forUpdate bool) (*models.PendingCode, error)
	Delete(ctx context.Context, accountID string, purpose models.CodePurpose) error
}
