package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vytor/chessfeed/internal/api"
	"github.com/vytor/chessfeed/internal/config"
	"github.com/vytor/chessfeed/internal/db"
	"github.com/vytor/chessfeed/internal/logger"
	"github.com/vytor/chessfeed/internal/metrics"
	"github.com/vytor/chessfeed/internal/models"
	"github.com/vytor/chessfeed/internal/render"
	"github.com/vytor/chessfeed/internal/repository/sqlite"
	"github.com/vytor/chessfeed/internal/seed"
	"github.com/vytor/chessfeed/internal/services"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the feed HTTP server",
		Long: `Starts the HTTP server with the feed board, the authoring board and the
JSON API. Configuration comes from the environment (or a .env file):
ADDR, DB_PATH, LOG_LEVEL, LOG_FORMAT, SEED_PATH, CORS_ORIGINS, REQUEST_TIMEOUT_SECONDS.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	cfg.LogLevel, cfg.LogFormat = logSettings(cmd, cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := setupLogger(cfg.LogLevel, cfg.LogFormat)

	log.Info("===========================================")
	log.Info("chessfeed server starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s log_format=%s", cfg.LogLevel, cfg.LogFormat)
	log.Debug("seed_path=%s", cfg.SeedPath)
	log.Debug("cors_origins=%v", cfg.CORSOrigins)
	log.Debug("request_timeout=%s", cfg.RequestTimeout)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return err
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	tmpl, err := api.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates: %v", err)
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	postService := services.NewPostService(sqlite.NewPostRepository(database.DB), render.New(), m)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seedPosts(ctx, postService, cfg.SeedPath); err != nil {
		log.Error("failed to seed posts: %v", err)
		return err
	}

	draftService, err := services.NewDraftService(postService, m)
	if err != nil {
		log.Error("failed to create authoring board: %v", err)
		return err
	}

	srv := &api.Server{
		PostService:    postService,
		FeedService:    services.NewFeedService(postService, m),
		DraftService:   draftService,
		Templates:      tmpl,
		DB:             database,
		Metrics:        m,
		Gatherer:       reg,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			log.Error("HTTP server error: %v", err)
			return err
		}
	case <-ctx.Done():
		log.Info("received shutdown signal, initiating graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
		return err
	}

	log.Info("===========================================")
	log.Info("chessfeed server stopped")
	log.Info("===========================================")
	return nil
}

// seedPosts loads the bundled posts, or the YAML file at path when one is set.
func seedPosts(ctx context.Context, posts services.PostService, path string) error {
	var (
		seeded []models.Post
		err    error
	)
	if path == "" {
		seeded, err = seed.Default()
	} else {
		seeded, err = seed.Load(path)
	}
	if err != nil {
		return err
	}
	n, err := posts.Seed(ctx, seeded)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.FromContext(ctx).Info("seeded %d posts", n)
	}
	return nil
}
