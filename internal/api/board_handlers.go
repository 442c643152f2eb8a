package api

import (
	"net/http"

	"github.com/vytor/chessfeed/internal/engine"
	"github.com/vytor/chessfeed/internal/models"
)

// moveRequest accepts either free text ("e4", "Nxf7+", "e7e8q") or a
// from/to/promotion drop.
type moveRequest struct {
	Move      string `json:"move" validate:"required_without=From,excluded_with=From,max=16"`
	From      string `json:"from" validate:"required_with=To,max=2"`
	To        string `json:"to" validate:"required_with=From,max=2"`
	Promotion string `json:"promotion" validate:"omitempty,oneof=q r b n"`
}

func (m moveRequest) toMove() engine.Move {
	if m.Move != "" {
		return engine.ParseMove(m.Move)
	}
	return engine.Move{From: m.From, To: m.To, Promotion: m.Promotion}
}

type movetextRequest struct {
	Movetext string `json:"movetext" validate:"max=100000"`
}

type pgnRequest struct {
	PGN string `json:"pgn" validate:"required,max=200000"`
}

type positionRequest struct {
	FEN string `json:"fen" validate:"max=128"`
}

type suggestionRequest struct {
	Move string `json:"move" validate:"required,max=16"`
}

func (s *Server) respondMove(w http.ResponseWriter, r *http.Request, res *models.MoveResult, err error) {
	if err != nil {
		handleMoveError(w, r, res, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) respondStep(w http.ResponseWriter, r *http.Request, res *models.StepResult, err error) {
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Feed board

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	view, err := s.FeedService.Current(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleFeedNext(w http.ResponseWriter, r *http.Request) {
	view, err := s.FeedService.Next(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleFeedMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	res, err := s.FeedService.ApplyMove(r.Context(), req.toMove())
	s.respondMove(w, r, res, err)
}

func (s *Server) handleFeedForward(w http.ResponseWriter, r *http.Request) {
	res, err := s.FeedService.StepForward(r.Context())
	s.respondStep(w, r, res, err)
}

func (s *Server) handleFeedBack(w http.ResponseWriter, r *http.Request) {
	res, err := s.FeedService.StepBackward(r.Context())
	s.respondStep(w, r, res, err)
}

func (s *Server) handleFeedComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	comment, err := s.FeedService.AddComment(r.Context(), req.Body)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// Authoring board

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.DraftService.State(r.Context()))
}

func (s *Server) handleDraftMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	res, err := s.DraftService.ApplyMove(r.Context(), req.toMove())
	s.respondMove(w, r, res, err)
}

func (s *Server) handleDraftForward(w http.ResponseWriter, r *http.Request) {
	res, err := s.DraftService.StepForward(r.Context())
	s.respondStep(w, r, res, err)
}

func (s *Server) handleDraftBack(w http.ResponseWriter, r *http.Request) {
	res, err := s.DraftService.StepBackward(r.Context())
	s.respondStep(w, r, res, err)
}

func (s *Server) handleDraftMovetext(w http.ResponseWriter, r *http.Request) {
	var req movetextRequest
	if err := decodeValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	view, err := s.DraftService.LoadMovetext(r.Context(), req.Movetext)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDraftPGN(w http.ResponseWriter, r *http.Request) {
	var req pgnRequest
	if err := decodeValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	view, err := s.DraftService.ImportPGN(r.Context(), req.PGN)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDraftPosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decodeValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	view, err := s.DraftService.SetPosition(r.Context(), req.FEN)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDraftSuggestion(w http.ResponseWriter, r *http.Request) {
	var req suggestionRequest
	if err := decodeValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	res, err := s.DraftService.Suggest(r.Context(), req.Move)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
