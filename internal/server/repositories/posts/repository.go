// Package posts persists user-authored posts. Reads populate the owner with
// the author's email only.
package posts

import (
	"context"

	"github.com/dmitrijs2005/postgate/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, offset, limit int) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}
