// Package resolver orchestrates lookup attempts against a metadata source,
// falling back from the full "title artist" query to the title alone.
package resolver

import (
	"context"
	"log/slog"

	"github.com/aluiziolira/go-trackmeta/models"
	"github.com/aluiziolira/go-trackmeta/source"
)

// Resolver tries progressively less specific queries against a single
// metadata source. The full query maximizes precision, the title-only
// fallback maximizes recall; there is no third attempt and no backoff.
type Resolver struct {
	source  source.Source
	metrics *source.Metrics
}

// New builds a resolver on top of src.
func New(src source.Source, metrics *source.Metrics) *Resolver {
	return &Resolver{source: src, metrics: metrics}
}

// ResolveTrack resolves title/artist to a canonical metadata record. An
// unreachable source degrades to the fallback query like an empty result
// does; if every attempt fails that way the whole lookup reports
// source.ErrNotFound, deliberately not distinguishing a flaky source from a
// truly absent track. Extraction failures abort immediately.
//
// Whatever string actually matched, the returned record carries the
// original request title and artist.
func (r *Resolver) ResolveTrack(ctx context.Context, title, artist string) (*models.TrackMetadata, error) {
	q := models.Query{Title: title, Artist: artist}

	queries := []string{q.Full()}
	if titleOnly := q.TitleOnly(); titleOnly != q.Full() {
		queries = append(queries, titleOnly)
	}

	for _, query := range queries {
		meta, err := r.source.Resolve(ctx, query)
		if err == nil {
			meta.Title = title
			meta.Artist = artist
			r.metrics.IncLookup("found")
			return meta, nil
		}

		r.metrics.IncError(err)
		if !source.Retriable(err) {
			slog.Error("lookup aborted", slog.String("query", query), slog.Any("error", err))
			r.metrics.IncLookup("error")
			return nil, err
		}
		slog.Debug("lookup attempt failed", slog.String("query", query), slog.Any("error", err))
	}

	r.metrics.IncLookup("not_found")
	return nil, source.ErrNotFound
}
