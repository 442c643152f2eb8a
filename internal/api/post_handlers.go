package api

import (
	"net/http"

	"github.com/vytor/chessfeed/internal/logger"
	"github.com/vytor/chessfeed/internal/models"
	"github.com/vytor/chessfeed/internal/services"
)

type publishRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Content  string `json:"content" validate:"required,max=4000"`
	Caption  string `json:"caption" validate:"required,max=280"`
}

type commentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

type postList struct {
	Posts []models.Post `json:"posts"`
	Total int           `json:"total"`
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	filter := models.PostFilter{
		Username: r.URL.Query().Get("username"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}
	logger.FromContext(r.Context()).WithFields(map[string]any{
		"username": filter.Username,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	}).Debug("listing posts")

	posts, err := s.PostService.ListPosts(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	total, err := s.PostService.CountPosts(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, postList{Posts: posts, Total: total})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	post, err := s.PostService.GetPost(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// handlePublish turns the authoring board into a new post.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := decodeValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	post, err := s.DraftService.Publish(r.Context(), services.PublishRequest{
		Username: req.Username,
		Content:  req.Content,
		Caption:  req.Caption,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("post %d published by %s", post.ID, post.Username)
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handlePostComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req commentRequest
	if err := decodeValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	comment, err := s.PostService.AddComment(r.Context(), id, req.Body)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
