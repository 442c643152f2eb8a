package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/vytor/chessfeed/internal/board"
	"github.com/vytor/chessfeed/internal/engine"
	"github.com/vytor/chessfeed/internal/errors"
	"github.com/vytor/chessfeed/internal/logger"
	"github.com/vytor/chessfeed/internal/metrics"
	"github.com/vytor/chessfeed/internal/models"
	"github.com/vytor/chessfeed/internal/repository"
)

// Renderer turns post text into HTML.
type Renderer interface {
	Render(text string) string
}

// PostService handles post and comment business logic
type PostService interface {
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	CountPosts(ctx context.Context, filter models.PostFilter) (int, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	AddComment(ctx context.Context, postID int64, body string) (*models.Comment, error)
	Seed(ctx context.Context, posts []models.Post) (int, error)
}

type postService struct {
	postRepo repository.PostRepository
	renderer Renderer
	metrics  *metrics.Metrics
}

// NewPostService creates a new PostService. renderer and m may be nil.
func NewPostService(postRepo repository.PostRepository, renderer Renderer, m *metrics.Metrics) PostService {
	return &postService{postRepo: postRepo, renderer: renderer, metrics: m}
}

func (s *postService) render(p *models.Post) {
	if s.renderer != nil {
		p.ContentHTML = s.renderer.Render(p.Content)
	}
}

func (s *postService) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing posts: username=%s, limit=%d, offset=%d", filter.Username, filter.Limit, filter.Offset)

	posts, err := s.postRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list posts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	for i := range posts {
		s.render(&posts[i])
	}
	return posts, nil
}

func (s *postService) CountPosts(ctx context.Context, filter models.PostFilter) (int, error) {
	n, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Error("failed to count posts: %v", err)
		return 0, errors.NewInternalError(err)
	}
	return n, nil
}

func (s *postService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting post: id=%d", id)

	post, err := s.postRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("post", id)
		}
		log.Error("failed to get post: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if post == nil {
		return nil, errors.NewNotFoundError("post", id)
	}
	s.render(post)
	return post, nil
}

// CreatePost checks the post's position, moves and suggestions with the rules
// engine, stores their canonical SAN and returns the stored post.
func (s *postService) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating post: username=%s, moves=%d, suggestions=%d", post.Username, len(post.Moves), len(post.SuggestedMoves))

	post.Username = strings.TrimSpace(post.Username)
	post.Content = strings.TrimSpace(post.Content)
	post.Caption = strings.TrimSpace(post.Caption)
	switch {
	case post.Username == "":
		return nil, errors.NewValidationError("username", "cannot be empty")
	case post.Content == "":
		return nil, errors.NewValidationError("content", "cannot be empty")
	case post.Caption == "":
		return nil, errors.NewValidationError("caption", "cannot be empty")
	}

	fen, err := engine.NormalizeFEN(post.FEN)
	if err != nil {
		return nil, errors.FromBoard(err)
	}
	if post.FEN == "" || post.FEN == engine.StartSentinel || fen == engine.StartFEN {
		post.FEN = engine.StartSentinel
	} else {
		post.FEN = fen
	}

	c, err := board.NewController(post.FEN)
	if err != nil {
		return nil, errors.FromBoard(err)
	}
	if err := c.Bind(post.FEN, post.Moves); err != nil {
		log.Debug("rejected post moves: %v", err)
		return nil, errors.FromBoard(err)
	}
	post.Moves = c.History()

	suggestions := board.NewSuggestions()
	for _, text := range post.SuggestedMoves {
		if _, err := suggestions.Add(post.FEN, text); err != nil {
			log.Debug("rejected suggested move %q: %v", text, err)
			return nil, errors.FromBoard(err)
		}
	}
	post.SuggestedMoves = suggestions.List()
	post.Comments = nil

	id, err := s.postRepo.Insert(ctx, post)
	if err != nil {
		log.Error("failed to insert post: %v", err)
		return nil, errors.NewInternalError(err)
	}
	s.metrics.PostPublished()
	log.Info("post published: id=%d, username=%s", id, post.Username)

	return s.GetPost(ctx, id)
}

func (s *postService) AddComment(ctx context.Context, postID int64, body string) (*models.Comment, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding comment: post_id=%d", postID)

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.NewValidationError("body", "cannot be empty")
	}
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := models.Comment{PostID: postID, Body: body}
	id, err := s.postRepo.InsertComment(ctx, comment)
	if err != nil {
		log.Error("failed to insert comment: %v", err)
		return nil, errors.NewInternalError(err)
	}
	comment.ID = id
	s.metrics.CommentAdded()
	return &comment, nil
}

// Seed inserts posts when the store is empty and reports how many were added.
func (s *postService) Seed(ctx context.Context, posts []models.Post) (int, error) {
	log := logger.FromContext(ctx)

	n, err := s.postRepo.Count(ctx, models.PostFilter{})
	if err != nil {
		log.Error("failed to count posts: %v", err)
		return 0, errors.NewInternalError(err)
	}
	if n > 0 {
		log.Debug("store already holds %d posts, skipping seed", n)
		return 0, nil
	}

	for _, p := range posts {
		c, err := board.NewController(p.FEN)
		if err == nil {
			err = c.Bind(p.FEN, p.Moves)
		}
		if err != nil {
			return 0, errors.FromBoard(err)
		}
	}

	ids, err := s.postRepo.InsertBatch(ctx, posts)
	if err != nil {
		log.Error("failed to seed posts: %v", err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("seeded %d posts", len(ids))
	return len(ids), nil
}
