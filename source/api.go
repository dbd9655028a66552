package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aluiziolira/go-trackmeta/config"
	"github.com/aluiziolira/go-trackmeta/models"
)

// APISource queries the site's internal JSON search endpoint and takes the
// first (highest ranked) item as the best match. Ranking quality is the
// upstream's problem; callers must tolerate the occasional mismatch.
type APISource struct {
	client    *http.Client
	baseURL   string
	userAgent string
	metrics   *Metrics
}

var _ Source = (*APISource)(nil)

// NewAPISource builds the structured-API variant from cfg.
func NewAPISource(cfg *config.Config, metrics *Metrics) *APISource {
	return &APISource{
		client:    &http.Client{Timeout: cfg.SearchTimeout},
		baseURL:   strings.TrimRight(cfg.APIBaseURL, "/"),
		userAgent: cfg.UserAgent,
		metrics:   metrics,
	}
}

// Resolve issues a single search request for the raw trimmed query. The
// query is percent-encoded but deliberately not normalized; the API does its
// own folding.
func (s *APISource) Resolve(ctx context.Context, query string) (*models.TrackMetadata, error) {
	searchURL := fmt.Sprintf("%s/tracks/search?term=%s", s.baseURL, url.QueryEscape(strings.TrimSpace(query)))
	slog.Debug("api search", slog.String("url", searchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, ErrUnreachable{Err: fmt.Errorf("build search request: %w", err)}
	}
	req.Header.Set("User-Agent", s.userAgent)

	s.metrics.IncRequest("api_search")
	start := time.Now()
	resp, err := s.client.Do(req)
	s.metrics.ObserveDuration(time.Since(start))
	if err != nil {
		return nil, ErrUnreachable{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnreachable{Err: fmt.Errorf("search status %d", resp.StatusCode)}
	}

	var body apiSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, ErrExtraction{Err: fmt.Errorf("decode search response: %w", err)}
	}
	if len(body.Data.Items) == 0 {
		return nil, ErrNotFound
	}

	return mapAPITrack(body.Data.Items[0]), nil
}

// apiSearchResponse mirrors the search endpoint's envelope. Field names are
// the upstream's abbreviations and must not be renamed.
type apiSearchResponse struct {
	Data struct {
		Items []apiTrack `json:"items"`
	} `json:"data"`
}

type apiTrack struct {
	Name         string          `json:"n"`
	Artists      []string        `json:"as"`
	BPM          float64         `json:"b"`
	Key          string          `json:"k"`
	Camelot      string          `json:"c"`
	Energy       float64         `json:"e"`  // [0,1]
	Danceability float64         `json:"da"` // [0,1]
	Happiness    float64         `json:"h"`  // [0,1], surfaced as valence
	CoverImages  []apiCoverImage `json:"ci"`
}

type apiCoverImage struct {
	URL string `json:"iu"`
}
