package services

import (
	"context"
	"sync"

	"github.com/vytor/chessfeed/internal/board"
	"github.com/vytor/chessfeed/internal/engine"
	"github.com/vytor/chessfeed/internal/errors"
	"github.com/vytor/chessfeed/internal/logger"
	"github.com/vytor/chessfeed/internal/metrics"
	"github.com/vytor/chessfeed/internal/models"
)

// FeedService drives the feed board: the post on display and the board bound to it.
type FeedService interface {
	Current(ctx context.Context) (*models.FeedView, error)
	Next(ctx context.Context) (*models.FeedView, error)
	ApplyMove(ctx context.Context, move engine.Move) (*models.MoveResult, error)
	StepForward(ctx context.Context) (*models.StepResult, error)
	StepBackward(ctx context.Context) (*models.StepResult, error)
	AddComment(ctx context.Context, body string) (*models.Comment, error)
}

type feedService struct {
	mu      sync.Mutex
	posts   PostService
	metrics *metrics.Metrics

	ctrl    *board.Controller
	index   int
	boundID int64
}

// NewFeedService creates a FeedService showing the first post.
func NewFeedService(posts PostService, m *metrics.Metrics) FeedService {
	return &feedService{posts: posts, metrics: m}
}

// current loads the displayed post, binding the board when the post changed.
// The caller holds s.mu.
func (s *feedService) current(ctx context.Context) (*models.FeedView, error) {
	total, err := s.posts.CountPosts(ctx, models.PostFilter{})
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, errors.NewNotFoundError("post", "feed")
	}
	if s.index >= total {
		s.index = 0
	}

	page, err := s.posts.ListPosts(ctx, models.PostFilter{Limit: 1, Offset: s.index})
	if err != nil {
		return nil, err
	}
	if len(page) == 0 {
		return nil, errors.NewNotFoundError("post", s.index)
	}
	post := page[0]

	if s.ctrl == nil || post.ID != s.boundID {
		if err := s.bind(ctx, post); err != nil {
			return nil, err
		}
	}

	return &models.FeedView{Post: post, Index: s.index, Total: total, Board: s.ctrl.State()}, nil
}

func (s *feedService) bind(ctx context.Context, post models.Post) error {
	log := logger.FromContext(ctx).WithPrefix("feed")

	c, err := board.NewController(post.FEN)
	if err == nil {
		err = c.Bind(post.FEN, post.Moves)
	}
	if err != nil {
		log.Error("stored post %d does not replay: %v", post.ID, err)
		return errors.NewInternalError(err)
	}
	s.ctrl = c
	s.boundID = post.ID
	log.Debug("bound post %d with %d moves", post.ID, len(post.Moves))
	return nil
}

func (s *feedService) Current(ctx context.Context) (*models.FeedView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx)
}

// Next advances to the following post, wrapping around, and resets its board.
func (s *feedService) Next(ctx context.Context) (*models.FeedView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, err := s.posts.CountPosts(ctx, models.PostFilter{})
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, errors.NewNotFoundError("post", "feed")
	}
	s.index = (s.index + 1) % total
	s.ctrl = nil
	return s.current(ctx)
}

func (s *feedService) ApplyMove(ctx context.Context, move engine.Move) (*models.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.current(ctx); err != nil {
		return nil, err
	}
	return applyMove(ctx, s.ctrl, move, metrics.BoardFeed, s.metrics)
}

func (s *feedService) StepForward(ctx context.Context) (*models.StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.current(ctx); err != nil {
		return nil, err
	}
	return step(ctx, s.ctrl, true, metrics.BoardFeed, s.metrics)
}

func (s *feedService) StepBackward(ctx context.Context) (*models.StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.current(ctx); err != nil {
		return nil, err
	}
	return step(ctx, s.ctrl, false, metrics.BoardFeed, s.metrics)
}

// AddComment appends a comment to the post on display.
func (s *feedService) AddComment(ctx context.Context, body string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return s.posts.AddComment(ctx, view.Post.ID, body)
}

// applyMove plays move on c. A rejected move is reported both as a result
// with Accepted=false and as an error.
func applyMove(ctx context.Context, c *board.Controller, move engine.Move, boardName string, m *metrics.Metrics) (*models.MoveResult, error) {
	log := logger.FromContext(ctx).WithPrefix(boardName)

	san, err := c.ApplyMove(move)
	m.ObserveMove(boardName, err)
	if err != nil {
		log.Debug("move %s rejected: %v", move, err)
		return &models.MoveResult{Accepted: false, Board: c.State()}, errors.FromBoard(err)
	}
	log.Debug("move %s played as %s, cursor=%d", move, san, c.Cursor())
	return &models.MoveResult{Accepted: true, SAN: san, Board: c.State()}, nil
}

func step(ctx context.Context, c *board.Controller, forward bool, boardName string, m *metrics.Metrics) (*models.StepResult, error) {
	var (
		moved     bool
		err       error
		direction = "backward"
	)
	if forward {
		direction = "forward"
		moved, err = c.StepForward()
	} else {
		moved, err = c.StepBackward()
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix(boardName).Error("step %s failed: %v", direction, err)
		return nil, errors.FromBoard(err)
	}
	m.ObserveNavigation(boardName, direction, moved)
	return &models.StepResult{Moved: moved, Board: c.State()}, nil
}
