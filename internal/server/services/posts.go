package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/postgate/internal/common"
	"github.com/dmitrijs2005/postgate/internal/logging"
	"github.com/dmitrijs2005/postgate/internal/server/models"
	"github.com/dmitrijs2005/postgate/internal/server/repositories/repomanager"
)

// PostService serves public reads and owner-only mutations of posts.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	perPage     int
	logger      logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, perPage int, logger logging.Logger) *PostService {
	return &PostService{
		db:          db,
		repomanager: m,
		perPage:     perPage,
		logger:      logger.With("module", "posts"),
	}
}

// List returns page (1-based) of posts, newest first. Pages below 2 are the
// first page.
func (s *PostService) List(ctx context.Context, page int) ([]models.Post, error) {
	offset := 0
	if page > 1 {
		offset = (page - 1) * s.perPage
	}
	return s.repomanager.Posts(s.db).List(ctx, offset, s.perPage)
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	canonical, ok := canonicalID(id)
	if !ok {
		return nil, common.ErrPostNotFound
	}
	return s.repomanager.Posts(s.db).Get(ctx, canonical)
}

func (s *PostService) Create(ctx context.Context, claims *models.Claims, title, description string) (*models.Post, error) {
	if claims == nil {
		return nil, common.ErrTokenMissing
	}

	post, err := s.repomanager.Posts(s.db).Create(ctx, &models.Post{
		Title:       title,
		Description: description,
		Owner:       models.Owner{ID: claims.AccountID, Email: claims.Email},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "post created", "post_id", post.ID, "account_id", claims.AccountID)
	return post, nil
}

func (s *PostService) Update(ctx context.Context, claims *models.Claims, id, title, description string) (*models.Post, error) {
	post, err := s.authorize(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	post.Title = title
	post.Description = description
	return s.repomanager.Posts(s.db).Update(ctx, post)
}

func (s *PostService) Delete(ctx context.Context, claims *models.Claims, id string) error {
	post, err := s.authorize(ctx, claims, id)
	if err != nil {
		return err
	}

	if err := s.repomanager.Posts(s.db).Delete(ctx, post.ID); err != nil {
		return err
	}

	s.logger.Info(ctx, "post deleted", "post_id", post.ID, "account_id", claims.AccountID)
	return nil
}

// authorize loads the post and applies the ownership guard. The owner of a
// post never changes, so no lock is held between check and write.
func (s *PostService) authorize(ctx context.Context, claims *models.Claims, id string) (*models.Post, error) {
	if claims == nil {
		return nil, common.ErrTokenMissing
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !AuthorizeMutation(post.Owner.ID, claims.AccountID) {
		s.logger.Warn(ctx, "post mutation refused", "post_id", post.ID, "account_id", claims.AccountID)
		return nil, common.ErrForbidden
	}
	return post, nil
}
