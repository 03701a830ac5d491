package pdf2odt

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Document is the structural model extracted from a TEI file.
// It is built once per source document, is not mutated after parsing,
// and is the sole input to the ODT renderer.
type Document struct {
	Title      string
	Authors    []string
	Abstract   string
	Body       []Block
	References []Reference
}

// BlockKind discriminates body block variants.
type BlockKind int

// Block kinds, in no particular order. Headings do not nest: a heading
// precedes the blocks it introduces but holds no parent/child relation.
const (
	KindHeading BlockKind = iota
	KindParagraph
	KindTable
)

// Block is one structural unit of document body content.
// Exactly one of Text, Spans, or Rows is meaningful, selected by Kind.
type Block struct {
	Kind  BlockKind
	Text  string     // heading text (KindHeading)
	Spans []Span     // inline content (KindParagraph)
	Rows  [][]string // row-major cell text (KindTable)
}

// SpanKind discriminates inline span variants.
type SpanKind int

// Span kinds.
const (
	SpanText SpanKind = iota
	SpanCitation
)

// Span is one run of paragraph content: either a literal text run or an
// in-text citation pointing at a bibliography entry.
type Span struct {
	Kind   SpanKind
	Text   string
	Target string // bibliography entry id (SpanCitation); empty if unresolved
}

// Reference is one parsed bibliography entry. ID is unique within a
// document: entries without a source identifier get sequential "ref_N" ids.
type Reference struct {
	ID   string
	Text string
}

// DefaultGrobidURL is the base URL of a locally running GROBID instance.
const DefaultGrobidURL = "http://localhost:8070"

// defaultTimeout bounds the extraction service call.
const defaultTimeout = 120 * time.Second

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	grobidURL  string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

// WithGrobidURL sets the base URL of the GROBID service.
func WithGrobidURL(url string) Option {
	return func(c *Converter) {
		c.cfg.grobidURL = url
	}
}

// WithTimeout sets the extraction service timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("pdf2odt: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithHTTPClient sets the HTTP client used for service calls.
// The client's own timeout, if any, takes precedence over WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Converter) {
		c.cfg.httpClient = client
	}
}

// WithLogger sets the logger used for conversion progress and per-item
// render failures. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = logger
	}
}
