package pdf2odt

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestNewConverter - Options
// ---------------------------------------------------------------------------

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Duration{0, -time.Second} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("WithTimeout(%v) did not panic", d)
				}
			}()
			WithTimeout(d)
		}()
	}
}

func TestNewConverter_GrobidURL(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := newGrobidStub(t, &hits)

	conv := NewConverter(WithGrobidURL(srv.URL), WithHTTPClient(srv.Client()))
	tei, err := conv.ExtractTEI(context.Background(), []byte("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("ExtractTEI() error = %v", err)
	}
	if len(tei) == 0 {
		t.Error("ExtractTEI() returned empty TEI")
	}
}

// ---------------------------------------------------------------------------
// TestConverter_ConvertTEI - Parse and render in one step
// ---------------------------------------------------------------------------

func TestConverter_ConvertTEI(t *testing.T) {
	t.Parallel()

	tei := teiDoc(minimalHeader,
		`<div><head>Intro</head><p>See <ref type="bibr" target="#b0">Smith</ref>.</p></div>`,
		`<listBibl><biblStruct xml:id="b0"><analytic><title>T</title></analytic></biblStruct></listBibl>`)

	conv := NewConverter()
	odt, err := conv.ConvertTEI(tei)
	if err != nil {
		t.Fatalf("ConvertTEI() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(odt), int64(len(odt)))
	if err != nil {
		t.Fatalf("ConvertTEI() did not produce a valid package: %v", err)
	}
	var found bool
	for _, f := range zr.File {
		if f.Name == "content.xml" {
			found = true
		}
	}
	if !found {
		t.Error("package missing content.xml")
	}
}

func TestConverter_ConvertTEI_ParseError(t *testing.T) {
	t.Parallel()

	conv := NewConverter()
	_, err := conv.ConvertTEI([]byte("<TEI><unclosed></TEI>"))
	if !errors.Is(err, ErrParseTEI) {
		t.Errorf("ConvertTEI() error = %v, want ErrParseTEI", err)
	}
}

// ---------------------------------------------------------------------------
// TestConverter_Render - Renderer delegation
// ---------------------------------------------------------------------------

func TestConverter_Render(t *testing.T) {
	t.Parallel()

	conv := NewConverter()
	doc := &Document{Title: "T", References: []Reference{{ID: "b0", Text: "R"}}}
	odt, err := conv.Render(doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(odt, []byte("PK")) {
		t.Error("Render() output is not a zip archive")
	}
	if !strings.Contains(string(odt), "mimetype") {
		t.Error("Render() output missing mimetype entry")
	}
}
