package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vytor/chessfeed/internal/board"
	"github.com/vytor/chessfeed/internal/engine"
	"github.com/vytor/chessfeed/internal/errors"
	"github.com/vytor/chessfeed/internal/logger"
	"github.com/vytor/chessfeed/internal/metrics"
	"github.com/vytor/chessfeed/internal/models"
)

// PublishRequest carries the free-text fields of a new post.
type PublishRequest struct {
	Username string
	Content  string
	Caption  string
}

// DraftService drives the authoring board, its suggested moves and publishing.
type DraftService interface {
	State(ctx context.Context) *models.DraftView
	ApplyMove(ctx context.Context, move engine.Move) (*models.MoveResult, error)
	StepForward(ctx context.Context) (*models.StepResult, error)
	StepBackward(ctx context.Context) (*models.StepResult, error)
	LoadMovetext(ctx context.Context, text string) (*models.DraftView, error)
	ImportPGN(ctx context.Context, text string) (*models.DraftView, error)
	SetPosition(ctx context.Context, fen string) (*models.DraftView, error)
	Suggest(ctx context.Context, move string) (*models.SuggestionResult, error)
	Publish(ctx context.Context, req PublishRequest) (*models.Post, error)
}

type draftService struct {
	mu      sync.Mutex
	posts   PostService
	metrics *metrics.Metrics

	ctrl        *board.Controller
	suggestions *board.Suggestions
	fen         string
	headers     map[string]string
}

// NewDraftService creates a DraftService with an empty board at the initial position.
func NewDraftService(posts PostService, m *metrics.Metrics) (DraftService, error) {
	c, err := board.NewController(engine.StartSentinel)
	if err != nil {
		return nil, fmt.Errorf("draft board: %w", err)
	}
	return &draftService{
		posts:       posts,
		metrics:     m,
		ctrl:        c,
		suggestions: board.NewSuggestions(),
		fen:         engine.StartFEN,
	}, nil
}

// view projects the draft. The caller holds s.mu.
func (s *draftService) view() *models.DraftView {
	return &models.DraftView{
		Board:          s.ctrl.State(),
		FEN:            s.fen,
		SuggestedMoves: s.suggestions.List(),
		Headers:        s.headers,
	}
}

func (s *draftService) State(ctx context.Context) *models.DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *draftService) ApplyMove(ctx context.Context, move engine.Move) (*models.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return applyMove(ctx, s.ctrl, move, metrics.BoardDraft, s.metrics)
}

func (s *draftService) StepForward(ctx context.Context) (*models.StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return step(ctx, s.ctrl, true, metrics.BoardDraft, s.metrics)
}

func (s *draftService) StepBackward(ctx context.Context) (*models.StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return step(ctx, s.ctrl, false, metrics.BoardDraft, s.metrics)
}

// LoadMovetext replaces the authoring board with numbered move pairs played
// from the initial position. The FEN field follows the board.
func (s *draftService) LoadMovetext(ctx context.Context, text string) (*models.DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx).WithPrefix(metrics.BoardDraft)

	err := s.ctrl.LoadMovetext(text)
	s.metrics.ObserveBulkLoad("movetext", err)
	if err != nil {
		log.Debug("movetext rejected: %v", err)
		return nil, errors.FromBoard(err)
	}
	s.fen = s.ctrl.StartFEN()
	s.headers = nil
	log.Debug("movetext loaded: %d plies", len(s.ctrl.History()))
	return s.view(), nil
}

// ImportPGN replaces the authoring board with a full PGN game and keeps its tag pairs.
func (s *draftService) ImportPGN(ctx context.Context, text string) (*models.DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx).WithPrefix(metrics.BoardDraft)

	headers, err := s.ctrl.LoadPGN(text)
	s.metrics.ObserveBulkLoad("pgn", err)
	if err != nil {
		log.Debug("pgn rejected: %v", err)
		return nil, errors.FromBoard(err)
	}
	s.fen = s.ctrl.StartFEN()
	s.headers = headers
	log.Debug("pgn imported: %d plies, %d headers", len(s.ctrl.History()), len(headers))
	return s.view(), nil
}

// SetPosition sets the FEN field and resets the authoring board to it.
func (s *draftService) SetPosition(ctx context.Context, fen string) (*models.DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctrl.SetStartingPosition(fen); err != nil {
		logger.FromContext(ctx).WithPrefix(metrics.BoardDraft).Debug("position %q rejected: %v", fen, err)
		return nil, errors.FromBoard(err)
	}
	s.fen = s.ctrl.StartFEN()
	s.headers = nil
	return s.view(), nil
}

// Suggest validates move against the FEN field, not the displayed board, and
// records its SAN. The returned list is read under the same lock as the insert.
func (s *draftService) Suggest(ctx context.Context, move string) (*models.SuggestionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	san, err := s.suggestions.Add(s.fen, move)
	s.metrics.ObserveSuggestion(err)
	if err != nil {
		logger.FromContext(ctx).WithPrefix(metrics.BoardDraft).Debug("suggestion %q rejected: %v", move, err)
		return nil, errors.FromBoard(err)
	}
	return &models.SuggestionResult{SAN: san, SuggestedMoves: s.suggestions.List()}, nil
}

// Publish creates a post from the draft and resets the draft on success.
func (s *draftService) Publish(ctx context.Context, req PublishRequest) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.posts.CreatePost(ctx, models.Post{
		Username:       req.Username,
		Content:        req.Content,
		Caption:        req.Caption,
		FEN:            s.fen,
		Moves:          s.ctrl.History(),
		SuggestedMoves: s.suggestions.List(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.ctrl.SetStartingPosition(engine.StartSentinel); err != nil {
		return nil, errors.NewInternalError(err)
	}
	s.suggestions.Reset()
	s.fen = engine.StartFEN
	s.headers = nil
	return post, nil
}
