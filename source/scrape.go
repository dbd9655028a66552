package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-trackmeta/config"
	"github.com/aluiziolira/go-trackmeta/models"
	"github.com/aluiziolira/go-trackmeta/parser"
	"github.com/gocolly/colly/v2"
)

// infoLinkSelector matches result anchors pointing at a track detail page.
const infoLinkSelector = `a[href^='/Info/']`

// ScrapeSource resolves queries against the public search page and follows
// the first detail-page link it finds. The search page may render results
// asynchronously, so the first step re-fetches until an anchor appears or
// the selector wait elapses.
type ScrapeSource struct {
	baseURL       string
	userAgent     string
	searchTimeout time.Duration
	selectorWait  time.Duration
	pollInterval  time.Duration
	detailTimeout time.Duration
	transport     http.RoundTripper // nil means the default transport
	debug         io.Writer         // optional sink for the last search page
	metrics       *Metrics
}

var _ Source = (*ScrapeSource)(nil)

// NewScrapeSource builds the page-scrape variant from cfg.
func NewScrapeSource(cfg *config.Config, metrics *Metrics) *ScrapeSource {
	s := &ScrapeSource{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:     cfg.UserAgent,
		searchTimeout: cfg.SearchTimeout,
		selectorWait:  cfg.SelectorWait,
		pollInterval:  cfg.PollInterval,
		detailTimeout: cfg.DetailTimeout,
		metrics:       metrics,
	}
	if cfg.DebugFile != "" {
		s.debug = &fileSink{path: cfg.DebugFile}
	}
	return s
}

// SetDebugSink redirects the search-page dump, or disables it with nil.
func (s *ScrapeSource) SetDebugSink(w io.Writer) {
	s.debug = w
}

// Resolve runs the two-step scrape: find a detail-page URL for the
// normalized query, then extract the labeled metrics from that page.
func (s *ScrapeSource) Resolve(ctx context.Context, query string) (*models.TrackMetadata, error) {
	infoURL, err := s.searchInfoURL(ctx, query)
	if err != nil {
		return nil, err
	}
	slog.Debug("detail page resolved", slog.String("url", infoURL))

	return s.extractDetail(infoURL)
}

// searchInfoURL fetches the search page for the normalized query and returns
// the first detail-page anchor as an absolute URL. It re-fetches every poll
// interval until the anchor appears or the selector wait elapses; no anchor
// by then means not found.
func (s *ScrapeSource) searchInfoURL(ctx context.Context, query string) (string, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s", s.baseURL, url.QueryEscape(parser.Normalize(query)))
	slog.Debug("scrape search", slog.String("query", query), slog.String("url", searchURL))

	deadline := time.Now().Add(s.selectorWait)
	for {
		infoURL, err := s.fetchFirstInfoLink(searchURL)
		if err != nil {
			return "", err
		}
		if infoURL != "" {
			return infoURL, nil
		}
		if !time.Now().Before(deadline) {
			return "", ErrNotFound
		}
		select {
		case <-ctx.Done():
			return "", ErrUnreachable{Err: ctx.Err()}
		case <-time.After(s.pollInterval):
		}
	}
}

func (s *ScrapeSource) fetchFirstInfoLink(searchURL string) (string, error) {
	c := s.newCollector(s.searchTimeout)

	var infoURL string
	c.OnHTML(infoLinkSelector, func(e *colly.HTMLElement) {
		if infoURL != "" {
			return
		}
		if href := e.Attr("href"); href != "" {
			infoURL = e.Request.AbsoluteURL(href)
		}
	})
	c.OnResponse(func(r *colly.Response) {
		if s.debug == nil {
			return
		}
		if _, err := s.debug.Write(r.Body); err != nil {
			slog.Warn("write search debug page", slog.Any("error", err))
		}
	})

	s.metrics.IncRequest("scrape_search")
	start := time.Now()
	err := c.Visit(searchURL)
	s.metrics.ObserveDuration(time.Since(start))
	if err != nil {
		return "", ErrUnreachable{Err: err}
	}
	return infoURL, nil
}

// extractDetail loads the detail page and reads each labeled metric. A page
// without any label paragraphs is an extraction failure; individual missing
// labels are not.
func (s *ScrapeSource) extractDetail(infoURL string) (*models.TrackMetadata, error) {
	c := s.newCollector(s.detailTimeout)

	var doc *goquery.Document
	var parseErr error
	c.OnResponse(func(r *colly.Response) {
		doc, parseErr = goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	})

	s.metrics.IncRequest("scrape_detail")
	start := time.Now()
	err := c.Visit(infoURL)
	s.metrics.ObserveDuration(time.Since(start))
	if err != nil {
		return nil, ErrExtraction{Err: fmt.Errorf("load detail page: %w", err)}
	}
	if parseErr != nil {
		return nil, ErrExtraction{Err: fmt.Errorf("parse detail page: %w", parseErr)}
	}
	if doc == nil || doc.Find("p").Length() == 0 {
		return nil, ErrExtraction{Err: fmt.Errorf("no label paragraphs on %s", infoURL)}
	}

	return mapScrapedPage(doc, infoURL), nil
}

func (s *ScrapeSource) newCollector(timeout time.Duration) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(s.userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(timeout)
	if s.transport != nil {
		c.WithTransport(s.transport)
	}
	return c
}

// fileSink keeps only the most recent search page on disk. Write errors are
// the caller's to log; they never interrupt a lookup.
type fileSink struct {
	path string
}

func (f *fileSink) Write(p []byte) (int, error) {
	if err := os.WriteFile(f.path, p, 0o644); err != nil {
		return 0, err
	}
	return len(p), nil
}
