package api

import (
	"context"
	"html/template"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vytor/chessfeed/internal/metrics"
	"github.com/vytor/chessfeed/internal/services"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	PostService    services.PostService
	FeedService    services.FeedService
	DraftService   services.DraftService
	Templates      *template.Template
	DB             Pinger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	CORSOrigins    []string
	RequestTimeout time.Duration
}

type pageData map[string]any
