package repository

import (
	"context"

	"github.com/vytor/chessfeed/internal/models"
)

// PostRepository handles post and comment data access
type PostRepository interface {
	Get(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	Count(ctx context.Context, filter models.PostFilter) (int, error)
	Insert(ctx context.Context, post models.Post) (int64, error)
	InsertBatch(ctx context.Context, posts []models.Post) ([]int64, error)
	InsertComment(ctx context.Context, comment models.Comment) (int64, error)
	CommentsForPost(ctx context.Context, postID int64) ([]models.Comment, error)
}
