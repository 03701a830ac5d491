package pdf2odt

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

// Converter orchestrates the PDF-to-ODT pipeline. Within one document the
// stages run strictly in sequence (extract, parse, render); documents are
// independent, so distinct documents may be converted concurrently with
// separate or shared Converters.
type Converter struct {
	cfg       converterConfig
	extractor *Extractor
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g. WithGrobidURL, WithTimeout).
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg: converterConfig{
			grobidURL: DefaultGrobidURL,
			timeout:   defaultTimeout,
			logger:    zerolog.Nop(),
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	client := c.cfg.httpClient
	if client == nil {
		client = &http.Client{Timeout: c.cfg.timeout}
	}
	c.extractor = NewExtractor(c.cfg.grobidURL, client, c.cfg.logger)

	return c
}

// ExtractTEI converts PDF bytes to TEI XML via the extraction service.
func (c *Converter) ExtractTEI(ctx context.Context, pdf []byte) ([]byte, error) {
	return c.extractor.ProcessFulltext(ctx, pdf)
}

// Parse parses TEI XML into the structural document model.
func (c *Converter) Parse(tei []byte) (*Document, error) {
	return ParseTEI(tei)
}

// Render renders a document model into ODT bytes, logging and skipping
// bibliography entries that fail to render.
func (c *Converter) Render(doc *Document) ([]byte, error) {
	return renderODT(doc, c.cfg.logger)
}

// ConvertTEI parses TEI XML and renders the result as ODT in one step.
func (c *Converter) ConvertTEI(tei []byte) ([]byte, error) {
	doc, err := c.Parse(tei)
	if err != nil {
		return nil, err
	}
	return c.Render(doc)
}

// Alive probes the extraction service health endpoint.
func (c *Converter) Alive(ctx context.Context) error {
	return c.extractor.Alive(ctx)
}
