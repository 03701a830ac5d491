// Package pdf2odt converts scholarly PDF documents to ODT via GROBID.
//
// # Quick Start
//
// Create a converter, extract TEI from a PDF, and render it as ODT:
//
//	conv := pdf2odt.NewConverter()
//
//	tei, err := conv.ExtractTEI(ctx, pdfBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	odt, err := conv.ConvertTEI(tei)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("paper.odt", odt, 0644)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. PDF to TEI extraction via a GROBID service (multipart upload)
//  2. TEI parsing into a structural document model (title, authors,
//     abstract, body blocks, bibliography)
//  3. ODT rendering with named styles and bookmark/hyperlink pairs
//     linking in-text citations to bibliography entries
//
// Stages 2 and 3 are also available standalone via ParseTEI and RenderODT,
// so TEI files produced elsewhere can be rendered without a service call.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv := pdf2odt.NewConverter(
//	    pdf2odt.WithGrobidURL("http://grobid.internal:8070"),
//	    pdf2odt.WithTimeout(2 * time.Minute),
//	    pdf2odt.WithLogger(logger),
//	)
//
// # Service Requirements
//
// TEI extraction requires a running GROBID instance (default
// http://localhost:8070). TEI parsing and ODT rendering have no external
// dependencies. Malformed TEI degrades gracefully: missing fields become
// empty or default values rather than errors.
package pdf2odt
