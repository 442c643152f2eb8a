package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(s.Metrics.Middleware)
	r.Use(securityHeadersMiddleware)

	origins := s.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	gatherer := s.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if s.RequestTimeout > 0 {
			r.Use(timeoutMiddleware(s.RequestTimeout))
		}

		r.Get("/", s.handleHome)

		r.Route("/api", func(r chi.Router) {
			r.Route("/posts", func(r chi.Router) {
				r.Get("/", s.handleListPosts)
				r.Post("/", s.handlePublish)
				r.Get("/{id}", s.handleGetPost)
				r.Post("/{id}/comments", s.handlePostComment)
			})

			r.Route("/feed", func(r chi.Router) {
				r.Get("/", s.handleFeed)
				r.Post("/next", s.handleFeedNext)
				r.Post("/moves", s.handleFeedMove)
				r.Post("/forward", s.handleFeedForward)
				r.Post("/back", s.handleFeedBack)
				r.Post("/comments", s.handleFeedComment)
			})

			r.Route("/draft", func(r chi.Router) {
				r.Get("/", s.handleDraft)
				r.Post("/moves", s.handleDraftMove)
				r.Post("/forward", s.handleDraftForward)
				r.Post("/back", s.handleDraftBack)
				r.Post("/movetext", s.handleDraftMovetext)
				r.Post("/pgn", s.handleDraftPGN)
				r.Put("/position", s.handleDraftPosition)
				r.Post("/suggestions", s.handleDraftSuggestion)
			})
		})
	})

	return r
}
