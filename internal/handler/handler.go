// Package handler maps the inbound HTTP surface onto the model gateway,
// the extractor and the metadata enricher, and shapes JSON responses.
package handler

import (
	"context"
	"time"

	"book-scanner/backend/internal/config"
	"book-scanner/backend/internal/model"
)

// Gateway abstracts the model API calls so handler tests can swap in a
// fake.
type Gateway interface {
	ChatCompletion(ctx context.Context, message, systemPrompt string) (string, error)
	AnalyzeImage(ctx context.Context, image []byte, prompt string) (string, error)
	ScanBookshelf(ctx context.Context, image []byte) (string, error)
	ExtractTitles(ctx context.Context, image []byte) (string, error)
}

// Enricher abstracts the metadata lookup batch.
type Enricher interface {
	EnrichAll(ctx context.Context, titles []string) []model.EnrichedBook
}

// Handler carries the wired dependencies for all routes.
type Handler struct {
	gateway   Gateway
	enricher  Enricher
	cfg       config.Config
	startedAt time.Time
}

// New creates a Handler.
func New(gateway Gateway, enricher Enricher, cfg config.Config) *Handler {
	return &Handler{
		gateway:   gateway,
		enricher:  enricher,
		cfg:       cfg,
		startedAt: time.Now(),
	}
}
