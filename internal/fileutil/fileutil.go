// Package fileutil provides file and path utility functions.
package fileutil

import (
	"os"
	"path/filepath"
	"strings"
)

// TEISuffix is the extension of intermediate TEI files.
const TEISuffix = ".tei.xml"

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Stem returns the file name without its final extension.
//
// Examples:
//   - "papers/a.pdf" -> "a"
//   - "a.PDF" -> "a"
//   - "noext" -> "noext"
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TEIStem returns the file name without the full ".tei.xml" suffix, so
// "a.tei.xml" maps to "a" rather than "a.tei".
func TEIStem(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, TEISuffix) {
		return strings.TrimSuffix(base, TEISuffix)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsPDF reports whether the path has a .pdf extension, case-insensitively.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
