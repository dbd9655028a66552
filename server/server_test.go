package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aluiziolira/go-trackmeta/models"
	"github.com/aluiziolira/go-trackmeta/resolver"
	"github.com/aluiziolira/go-trackmeta/source"
)

// stubSource returns one canned answer for every query and counts calls.
type stubSource struct {
	meta  *models.TrackMetadata
	err   error
	calls int
}

func (s *stubSource) Resolve(_ context.Context, _ string) (*models.TrackMetadata, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	copied := *s.meta
	return &copied, nil
}

func newTestServer(src source.Source) *Server {
	return New(resolver.New(src, nil), source.NewMetrics())
}

func doRequest(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestMetadataMissingTitle(t *testing.T) {
	src := &stubSource{meta: &models.TrackMetadata{}}
	s := newTestServer(src)

	for _, target := range []string{"/metadata", "/metadata?artist=X", "/metadata?title=%20%20&artist=X"} {
		rec := doRequest(t, s, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != "missing title" {
			t.Fatalf("%s: body = %v", target, body)
		}
	}
	if src.calls != 0 {
		t.Fatalf("missing title must not reach the source, got %d calls", src.calls)
	}
}

func TestMetadataSuccess(t *testing.T) {
	src := &stubSource{meta: &models.TrackMetadata{
		BPM:     "128",
		Key:     "A Minor",
		Valence: "65",
		InfoURL: "https://site.test/Info/abc123",
	}}
	s := newTestServer(src)

	rec := doRequest(t, s, "/metadata?title=Song&artist=Artist")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}

	body := decodeBody(t, rec)
	if body["title"] != "Song" || body["artist"] != "Artist" {
		t.Fatalf("title/artist = %v/%v, want echoed request parameters", body["title"], body["artist"])
	}
	if body["bpm"] != "128" || body["info_url"] != "https://site.test/Info/abc123" {
		t.Fatalf("unexpected payload: %v", body)
	}
	// Unresolved fields serialize as explicit nulls, not omissions.
	if camelot, present := body["camelot"]; !present || camelot != nil {
		t.Fatalf("camelot should be a JSON null, got %v (present %v)", camelot, present)
	}
}

func TestMetadataErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "not found",
			err:        source.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "track not found",
		},
		{
			name:       "unreachable collapses to not found",
			err:        source.ErrUnreachable{Err: errors.New("dial tcp: timeout")},
			wantStatus: http.StatusNotFound,
			wantError:  "track not found",
		},
		{
			name:       "extraction failure",
			err:        source.ErrExtraction{Err: errors.New("no labels")},
			wantStatus: http.StatusInternalServerError,
			wantError:  "failed to extract metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&stubSource{err: tt.err})

			rec := doRequest(t, s, "/metadata?title=Song&artist=Artist")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if body := decodeBody(t, rec); body["error"] != tt.wantError {
				t.Fatalf("body = %v, want error %q", body, tt.wantError)
			}
		})
	}
}

func TestPing(t *testing.T) {
	s := newTestServer(&stubSource{meta: &models.TrackMetadata{}})

	rec := doRequest(t, s, "/ping")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "online" {
		t.Fatalf("body = %v", body)
	}
}

func TestCORSHeaderOnEveryResponse(t *testing.T) {
	s := newTestServer(&stubSource{err: source.ErrNotFound})

	for _, target := range []string{"/ping", "/metadata", "/metadata?title=Song"} {
		rec := doRequest(t, s, target)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("%s: Access-Control-Allow-Origin = %q, want *", target, got)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&stubSource{meta: &models.TrackMetadata{}})

	rec := doRequest(t, s, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
