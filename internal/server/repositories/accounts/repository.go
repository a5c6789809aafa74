// Package accounts is the credential store: account records keyed by a
// unique, normalised email.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/postgate/internal/server/models"
)

// Repository persists accounts. The password hash is only selected when
// withPassword is true.
type Repository interface {
	Create(ctx context.Context, email, passwordHash string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string, withPassword bool) (*models.Account, error)
	GetByID(ctx context.Context, id string, withPassword bool) (*models.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	MarkVerified(ctx context.Context, id string) error
}
