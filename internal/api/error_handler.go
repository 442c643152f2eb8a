package api

import (
	"net/http"
	"strings"

	"github.com/vytor/chessfeed/internal/errors"
	"github.com/vytor/chessfeed/internal/logger"
	"github.com/vytor/chessfeed/internal/models"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newErrorBody(appErr *errors.AppError) errorBody {
	return errorBody{Code: appErr.Code, Message: appErr.Message}
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr := errors.FromBoard(err)
	if appErr == nil {
		appErr = errors.NewInternalError(err)
	}

	// Log based on status code
	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	if strings.HasPrefix(r.URL.Path, "/api/") || strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeError(w, appErr)
		return
	}

	http.Error(w, appErr.Message, appErr.Status)
}

func writeError(w http.ResponseWriter, appErr *errors.AppError) {
	writeJSON(w, appErr.Status, map[string]errorBody{"error": newErrorBody(appErr)})
}

type rejectedMove struct {
	Accepted bool              `json:"accepted"`
	Board    models.BoardState `json:"board"`
	Error    errorBody         `json:"error"`
}

// handleMoveError answers a rejected move with the unchanged board so the
// client can put the piece back. Other errors go through handleError.
func handleMoveError(w http.ResponseWriter, r *http.Request, res *models.MoveResult, err error) {
	appErr := errors.FromBoard(err)
	if res == nil || appErr == nil || appErr.Status >= 500 {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("move rejected: %v", appErr)
	writeJSON(w, http.StatusUnprocessableEntity, rejectedMove{
		Accepted: false,
		Board:    res.Board,
		Error:    newErrorBody(appErr),
	})
}
