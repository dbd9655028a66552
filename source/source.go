// Package source implements the metadata source adapters: a structured
// search-API variant and a rendered-page scrape variant sharing one
// contract.
package source

import (
	"context"
	"fmt"

	"github.com/aluiziolira/go-trackmeta/config"
	"github.com/aluiziolira/go-trackmeta/models"
)

// Source resolves a free-text search query into a best-effort metadata
// record. Implementations return ErrNotFound when the source has no match,
// ErrUnreachable on transport failures, and ErrExtraction when a response
// arrived but could not be parsed.
type Source interface {
	Resolve(ctx context.Context, query string) (*models.TrackMetadata, error)
}

// New builds the source variant selected by cfg.Source.
func New(cfg *config.Config, metrics *Metrics) (Source, error) {
	switch cfg.Source {
	case config.SourceAPI:
		return NewAPISource(cfg, metrics), nil
	case config.SourceScrape:
		return NewScrapeSource(cfg, metrics), nil
	default:
		return nil, fmt.Errorf("unknown source variant: %s", cfg.Source)
	}
}
