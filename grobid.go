package pdf2odt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// GROBID API paths relative to the service base URL.
const (
	fulltextPath = "/api/processFulltextDocument"
	alivePath    = "/api/isalive"
)

// teiCoordinates selects coordinate annotation for bibliography structures
// in the service response.
const teiCoordinates = "biblStruct"

// errorBodyLimit bounds how much of an error response body is read for
// diagnostics.
const errorBodyLimit = 4 << 10

// Extractor converts PDF bytes to TEI XML by calling a GROBID service.
type Extractor struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewExtractor creates an Extractor for the GROBID instance at baseURL.
// A nil client falls back to a default client with the package timeout.
func NewExtractor(baseURL string, client *http.Client, logger zerolog.Logger) *Extractor {
	if baseURL == "" {
		baseURL = DefaultGrobidURL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Extractor{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// ProcessFulltext posts the PDF to the fulltext endpoint and returns the
// TEI response body. The call is a single bounded wait: timeouts and HTTP
// failures are returned without retry. Non-2xx responses wrap
// ErrServiceStatus.
func (e *Extractor) ProcessFulltext(ctx context.Context, pdf []byte) ([]byte, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyPDF
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("input", "document.pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrExtraction, err)
	}
	if _, err := fw.Write(pdf); err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrExtraction, err)
	}
	if err := mw.WriteField("teiCoordinates", teiCoordinates); err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrExtraction, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrExtraction, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+fulltextPath, &body)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrExtraction, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	e.logger.Debug().Str("url", req.URL.String()).Int("pdf_bytes", len(pdf)).
		Msg("posting PDF to extraction service")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, fmt.Errorf("%w: %s: %s", ErrServiceStatus, resp.Status,
			strings.TrimSpace(string(detail)))
	}

	tei, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrExtraction, err)
	}
	return tei, nil
}

// Alive probes the service health endpoint. A nil return means the
// service answered with a success status.
func (e *Extractor) Alive(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+alivePath, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrExtraction, err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s", ErrServiceStatus, resp.Status)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
