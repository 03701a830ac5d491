package pdf2odt

// Notes:
// - The extraction service is faked with httptest; requests are inspected
//   for the multipart "input" field and the teiCoordinates form value.
// - Timeout behavior is covered via context cancellation rather than real
//   slow servers to keep the suite fast.

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

const fakeTEI = `<?xml version="1.0"?><TEI xmlns="http://www.tei-c.org/ns/1.0"></TEI>`

// newGrobidStub starts a fake GROBID answering the fulltext endpoint and
// counting requests.
func newGrobidStub(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		if r.URL.Path != "/api/processFulltextDocument" {
			t.Errorf("request path = %q, want /api/processFulltextDocument", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("request method = %q, want POST", r.Method)
		}

		file, _, err := r.FormFile("input")
		if err != nil {
			t.Errorf("missing multipart field input: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		pdf, err := io.ReadAll(file)
		if err != nil || len(pdf) == 0 {
			t.Error("empty PDF payload")
		}
		if got := r.FormValue("teiCoordinates"); got != "biblStruct" {
			t.Errorf("teiCoordinates = %q, want biblStruct", got)
		}

		_, _ = io.WriteString(w, fakeTEI)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ---------------------------------------------------------------------------
// TestExtractor_ProcessFulltext - Happy path
// ---------------------------------------------------------------------------

func TestExtractor_ProcessFulltext(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := newGrobidStub(t, &hits)

	ex := NewExtractor(srv.URL, srv.Client(), zerolog.Nop())
	tei, err := ex.ProcessFulltext(context.Background(), []byte("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("ProcessFulltext() error = %v", err)
	}
	if string(tei) != fakeTEI {
		t.Errorf("ProcessFulltext() = %q, want %q", tei, fakeTEI)
	}
	if hits.Load() != 1 {
		t.Errorf("service hit %d times, want 1", hits.Load())
	}
}

// ---------------------------------------------------------------------------
// TestExtractor_Errors - Failure modes
// ---------------------------------------------------------------------------

func TestExtractor_EmptyPDF(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := newGrobidStub(t, &hits)

	ex := NewExtractor(srv.URL, srv.Client(), zerolog.Nop())
	_, err := ex.ProcessFulltext(context.Background(), nil)
	if !errors.Is(err, ErrEmptyPDF) {
		t.Errorf("ProcessFulltext(nil) error = %v, want ErrEmptyPDF", err)
	}
	if hits.Load() != 0 {
		t.Errorf("service hit %d times, want 0", hits.Load())
	}
}

func TestExtractor_ServiceStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "worker pool exhausted", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	ex := NewExtractor(srv.URL, srv.Client(), zerolog.Nop())
	_, err := ex.ProcessFulltext(context.Background(), []byte("%PDF"))
	if !errors.Is(err, ErrServiceStatus) {
		t.Fatalf("ProcessFulltext() error = %v, want ErrServiceStatus", err)
	}
	if !strings.Contains(err.Error(), "worker pool exhausted") {
		t.Errorf("error %q missing response detail", err)
	}
}

func TestExtractor_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // address is now guaranteed unreachable

	ex := NewExtractor(srv.URL, nil, zerolog.Nop())
	_, err := ex.ProcessFulltext(context.Background(), []byte("%PDF"))
	if !errors.Is(err, ErrExtraction) {
		t.Errorf("ProcessFulltext() error = %v, want ErrExtraction", err)
	}
}

func TestExtractor_ContextCanceled(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := newGrobidStub(t, &hits)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := NewExtractor(srv.URL, srv.Client(), zerolog.Nop())
	_, err := ex.ProcessFulltext(ctx, []byte("%PDF"))
	if !errors.Is(err, ErrExtraction) {
		t.Errorf("ProcessFulltext() error = %v, want ErrExtraction", err)
	}
}

// ---------------------------------------------------------------------------
// TestExtractor_Alive - Health probe
// ---------------------------------------------------------------------------

func TestExtractor_Alive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "service up", status: http.StatusOK, wantErr: nil},
		{name: "service down", status: http.StatusServiceUnavailable, wantErr: ErrServiceStatus},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/isalive" {
					t.Errorf("request path = %q, want /api/isalive", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			t.Cleanup(srv.Close)

			ex := NewExtractor(srv.URL, srv.Client(), zerolog.Nop())
			err := ex.Alive(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Alive() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
