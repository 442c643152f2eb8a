package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/vytor/chessfeed/internal/logger"
	"github.com/vytor/chessfeed/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

func LoadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		// html marks already sanitized post content as safe.
		"html": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	return template.New("base").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleHome renders the feed page. An empty feed still renders the authoring form.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("rendering home page")

	var feed *models.FeedView
	if view, err := s.FeedService.Current(r.Context()); err != nil {
		log.Warn("feed unavailable: %v", err)
	} else {
		feed = view
	}

	s.render(w, r, "feed.html", pageData{
		"feed":  feed,
		"draft": s.DraftService.State(r.Context()),
		"tag":   r.URL.Query().Get("tag"),
	})
}
