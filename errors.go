package pdf2odt

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyPDF      = errors.New("PDF content cannot be empty")
	ErrEmptyTEI      = errors.New("TEI content cannot be empty")
	ErrNilDocument   = errors.New("document cannot be nil")
	ErrExtraction    = errors.New("TEI extraction failed")
	ErrServiceStatus = errors.New("extraction service returned non-success status")
	ErrParseTEI      = errors.New("TEI parsing failed")
	ErrRenderODT     = errors.New("ODT rendering failed")
	ErrWriteODT      = errors.New("failed to write ODT file")
)
