package pdf2odt

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// ODF package constants.
const (
	odtMimeType = "application/vnd.oasis.opendocument.text"
	odtVersion  = "1.2"
	generator   = "go-pdf2odt"
)

// Named paragraph styles defined once per document.
const (
	styleTitle    = "Title"
	styleAuthor   = "AuthorStyle"
	styleAbstract = "AbstractStyle"
	styleHeading  = "Heading"
	styleBody     = "BodyText"
)

// referenceSuffix is appended after each bibliography entry's text,
// inside its bookmark anchor.
const referenceSuffix = " bibitem"

// ODF XML namespaces used in emitted documents.
const (
	nsOffice   = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsStyle    = "urn:oasis:names:tc:opendocument:xmlns:style:1.0"
	nsText     = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsTable    = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsFO       = "urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"
	nsDC       = "http://purl.org/dc/elements/1.1/"
	nsMeta     = "urn:oasis:names:tc:opendocument:xmlns:meta:1.0"
	nsXLink    = "http://www.w3.org/1999/xlink"
	nsManifest = "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0"
)

// RenderODT renders a document model into an ODT package held in memory.
// Rendering is a single linear pass in fixed order: title, authors,
// abstract, body blocks, bibliography. Unmatched citation targets become
// dangling same-document links rather than errors.
func RenderODT(doc *Document) ([]byte, error) {
	return renderODT(doc, zerolog.Nop())
}

// WriteODT renders doc and persists the ODT package to path.
func WriteODT(doc *Document, path string) error {
	data, err := RenderODT(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteODT, err)
	}
	return nil
}

func renderODT(doc *Document, logger zerolog.Logger) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// The mimetype entry must come first and be stored uncompressed so
	// format sniffers can read it from fixed offsets.
	mw, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: mimetype entry: %v", ErrRenderODT, err)
	}
	if _, err := mw.Write([]byte(odtMimeType)); err != nil {
		return nil, fmt.Errorf("%w: mimetype entry: %v", ErrRenderODT, err)
	}

	entries := []struct {
		name    string
		content string
	}{
		{"META-INF/manifest.xml", buildManifestXML()},
		{"content.xml", buildContentXML(doc, logger)},
		{"styles.xml", buildStylesXML()},
		{"meta.xml", buildMetaXML(doc)},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRenderODT, e.name, err)
		}
		if _, err := w.Write([]byte(e.content)); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRenderODT, e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing package: %v", ErrRenderODT, err)
	}
	return buf.Bytes(), nil
}

// escXML escapes character data and attribute values.
func escXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s)) // cannot fail on a bytes.Buffer
	return buf.String()
}

// odtBuilder accumulates the office:text content of content.xml.
type odtBuilder struct {
	b strings.Builder
}

// para emits one styled paragraph with plain text content.
func (o *odtBuilder) para(style, text string) {
	o.b.WriteString(`<text:p text:style-name="` + escXML(style) + `">`)
	o.b.WriteString(escXML(text))
	o.b.WriteString("</text:p>")
}

// blank emits an empty spacer paragraph.
func (o *odtBuilder) blank() {
	o.b.WriteString("<text:p/>")
}

// paragraphBlock emits a BodyText paragraph, turning citation spans into
// same-document hyperlinks. An empty citation target still produces a
// dangling "#" link.
func (o *odtBuilder) paragraphBlock(spans []Span) {
	o.b.WriteString(`<text:p text:style-name="` + styleBody + `">`)
	for _, span := range spans {
		switch span.Kind {
		case SpanText:
			o.b.WriteString(escXML(span.Text))
		case SpanCitation:
			o.b.WriteString(`<text:a xlink:type="simple" xlink:href="#` + escXML(span.Target) + `">`)
			o.b.WriteString(escXML(span.Text))
			o.b.WriteString("</text:a>")
		}
	}
	o.b.WriteString("</text:p>")
}

// tableBlock emits a table with one row per row-array and one plain-text
// cell per string. Empty row data emits nothing.
func (o *odtBuilder) tableBlock(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	o.b.WriteString("<table:table>")
	fmt.Fprintf(&o.b, `<table:table-column table:number-columns-repeated="%d"/>`, cols)
	for _, row := range rows {
		o.b.WriteString("<table:table-row>")
		for _, cell := range row {
			o.b.WriteString("<table:table-cell>")
			o.para(styleBody, cell)
			o.b.WriteString("</table:table-cell>")
		}
		o.b.WriteString("</table:table-row>")
	}
	o.b.WriteString("</table:table>")
	o.blank()
}

// referenceBlock emits one bibliography paragraph wrapped in a named
// bookmark anchor so in-text citations can target it.
func (o *odtBuilder) referenceBlock(ref Reference) error {
	if !isValidBookmarkName(ref.ID) {
		return fmt.Errorf("invalid bookmark name %q", ref.ID)
	}
	o.b.WriteString(`<text:p text:style-name="` + styleBody + `">`)
	o.b.WriteString(`<text:bookmark-start text:name="` + escXML(ref.ID) + `"/>`)
	o.b.WriteString(escXML(ref.Text + referenceSuffix))
	o.b.WriteString(`<text:bookmark-end text:name="` + escXML(ref.ID) + `"/>`)
	o.b.WriteString("</text:p>")
	return nil
}

// isValidBookmarkName reports whether id can serve as a text:name value.
// Synthesized ids always qualify; ids taken verbatim from source xml:id
// attributes may not.
func isValidBookmarkName(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.' || r == ':':
		default:
			return false
		}
	}
	return true
}

// buildContentXML assembles content.xml in the fixed render order:
// title, authors, abstract, body blocks, bibliography. A failure on a
// single bibliography entry is logged and skipped without aborting the
// remaining entries.
func buildContentXML(doc *Document, logger zerolog.Logger) string {
	o := &odtBuilder{}

	o.para(styleTitle, doc.Title)

	if len(doc.Authors) > 0 {
		o.para(styleAuthor, strings.Join(doc.Authors, ", "))
	}

	if doc.Abstract != "" {
		o.para(styleHeading, "Abstract")
		o.para(styleAbstract, doc.Abstract)
	}

	for _, block := range doc.Body {
		switch block.Kind {
		case KindHeading:
			o.para(styleHeading, block.Text)
			o.blank()
		case KindParagraph:
			o.paragraphBlock(block.Spans)
			o.blank()
		case KindTable:
			o.tableBlock(block.Rows)
		}
	}

	if len(doc.References) > 0 {
		o.blank()
		o.para(styleHeading, "References")
		o.blank()
		for _, ref := range doc.References {
			if err := o.referenceBlock(ref); err != nil {
				logger.Warn().Err(err).Str("ref_id", ref.ID).
					Msg("skipping bibliography entry")
				continue
			}
			o.blank()
		}
	}

	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<office:document-content` +
		` xmlns:office="` + nsOffice + `"` +
		` xmlns:style="` + nsStyle + `"` +
		` xmlns:text="` + nsText + `"` +
		` xmlns:table="` + nsTable + `"` +
		` xmlns:xlink="` + nsXLink + `"` +
		` office:version="` + odtVersion + `">`)
	b.WriteString("<office:body><office:text>")
	b.WriteString(o.b.String())
	b.WriteString("</office:text></office:body>")
	b.WriteString("</office:document-content>")
	return b.String()
}

// styleDef describes one named paragraph style.
type styleDef struct {
	name       string
	fontSize   string
	fontWeight string
	fontStyle  string
}

// documentStyles are the five named styles applied throughout a document.
// Concrete values are a presentation choice; the contract is that the
// styles are distinct, reusable, and applied consistently.
var documentStyles = []styleDef{
	{name: styleTitle, fontSize: "24pt", fontWeight: "bold"},
	{name: styleAuthor, fontSize: "12pt", fontWeight: "bold"},
	{name: styleAbstract, fontSize: "12pt", fontStyle: "italic"},
	{name: styleHeading, fontSize: "18pt", fontWeight: "bold"},
	{name: styleBody, fontSize: "12pt"},
}

// styleFontFamily is the single font family used by all named styles.
const styleFontFamily = "Arial"

// buildStylesXML assembles styles.xml with the named paragraph styles.
func buildStylesXML() string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<office:document-styles` +
		` xmlns:office="` + nsOffice + `"` +
		` xmlns:style="` + nsStyle + `"` +
		` xmlns:fo="` + nsFO + `"` +
		` office:version="` + odtVersion + `">`)
	b.WriteString("<office:styles>")
	for _, s := range documentStyles {
		b.WriteString(`<style:style style:name="` + s.name + `" style:family="paragraph">`)
		b.WriteString(`<style:text-properties fo:font-family="` + styleFontFamily + `"` +
			` fo:font-size="` + s.fontSize + `"`)
		if s.fontWeight != "" {
			b.WriteString(` fo:font-weight="` + s.fontWeight + `"`)
		}
		if s.fontStyle != "" {
			b.WriteString(` fo:font-style="` + s.fontStyle + `"`)
		}
		b.WriteString("/>")
		b.WriteString("</style:style>")
	}
	b.WriteString("</office:styles>")
	b.WriteString("</office:document-styles>")
	return b.String()
}

// buildMetaXML assembles meta.xml with document metadata.
func buildMetaXML(doc *Document) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<office:document-meta` +
		` xmlns:office="` + nsOffice + `"` +
		` xmlns:meta="` + nsMeta + `"` +
		` xmlns:dc="` + nsDC + `"` +
		` office:version="` + odtVersion + `">`)
	b.WriteString("<office:meta>")
	b.WriteString("<meta:generator>" + generator + "</meta:generator>")
	b.WriteString("<dc:title>" + escXML(doc.Title) + "</dc:title>")
	if len(doc.Authors) > 0 {
		b.WriteString("<dc:creator>" + escXML(strings.Join(doc.Authors, ", ")) + "</dc:creator>")
	}
	b.WriteString("</office:meta>")
	b.WriteString("</office:document-meta>")
	return b.String()
}

// buildManifestXML assembles META-INF/manifest.xml.
func buildManifestXML() string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<manifest:manifest xmlns:manifest="` + nsManifest + `" manifest:version="` + odtVersion + `">`)
	b.WriteString(`<manifest:file-entry manifest:full-path="/" manifest:media-type="` + odtMimeType + `"/>`)
	for _, name := range []string{"content.xml", "styles.xml", "meta.xml"} {
		b.WriteString(`<manifest:file-entry manifest:full-path="` + name + `" manifest:media-type="text/xml"/>`)
	}
	b.WriteString("</manifest:manifest>")
	return b.String()
}
