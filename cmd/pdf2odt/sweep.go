package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"

	pdf2odt "github.com/alnah/go-pdf2odt"
	"github.com/alnah/go-pdf2odt/internal/config"
	"github.com/alnah/go-pdf2odt/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sweeper runs the full source -> TEI -> ODT sweep. Per-document failures
// are logged and skipped; one bad document never aborts the others.
type Sweeper struct {
	cfg    *config.Config
	conv   *pdf2odt.Converter
	logger zerolog.Logger
}

// NewSweeper creates a Sweeper over the configured directories.
func NewSweeper(cfg *config.Config, conv *pdf2odt.Converter, logger zerolog.Logger) *Sweeper {
	return &Sweeper{cfg: cfg, conv: conv, logger: logger}
}

// Run performs the sweep: extract TEI for every PDF missing one, then
// render ODT for every TEI missing one. Presence of the target file
// short-circuits each stage, so re-running a completed sweep performs no
// network calls and no writes.
func (s *Sweeper) Run(ctx context.Context) error {
	for _, dir := range []string{s.cfg.TEIDir, s.cfg.Output} {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	pdfs, err := findPDFs(s.cfg.Source)
	if err != nil {
		return fmt.Errorf("scanning source directory: %w", err)
	}
	s.logger.Info().Int("count", len(pdfs)).Str("dir", s.cfg.Source).
		Msg("found PDF files in source directory")

	for _, pdfPath := range pdfs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		teiPath := filepath.Join(s.cfg.TEIDir, fileutil.Stem(pdfPath)+fileutil.TEISuffix)
		if fileutil.FileExists(teiPath) {
			s.logger.Info().Str("pdf", pdfPath).Msg("TEI file already exists, skipping extraction")
			continue
		}
		if err := s.extractOne(ctx, pdfPath, teiPath); err != nil {
			s.logger.Error().Err(err).Str("pdf", pdfPath).Msg("TEI extraction failed")
			continue
		}
		s.logger.Info().Str("pdf", pdfPath).Str("tei", teiPath).Msg("converted PDF to TEI")
	}

	teis, err := filepath.Glob(filepath.Join(s.cfg.TEIDir, "*"+fileutil.TEISuffix))
	if err != nil {
		return fmt.Errorf("scanning TEI directory: %w", err)
	}

	for _, teiPath := range teis {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		outPath := filepath.Join(s.cfg.Output, fileutil.TEIStem(teiPath)+".odt")
		if fileutil.FileExists(outPath) {
			s.logger.Info().Str("tei", teiPath).Msg("ODT file already exists, skipping render")
			continue
		}
		if err := s.renderOne(teiPath, outPath); err != nil {
			s.logger.Error().Err(err).Str("tei", teiPath).Msg("ODT creation failed")
			continue
		}
		s.logger.Info().Str("odt", outPath).Msg("created ODT file")
	}

	return nil
}

// extractOne uploads one PDF to the extraction service and writes the TEI
// response next to its siblings in the TEI directory.
func (s *Sweeper) extractOne(ctx context.Context, pdfPath, teiPath string) error {
	s.preflight(pdfPath)

	pdf, err := os.ReadFile(pdfPath) // #nosec G304 -- discovered path
	if err != nil {
		return fmt.Errorf("reading PDF: %w", err)
	}
	tei, err := s.conv.ExtractTEI(ctx, pdf)
	if err != nil {
		return err
	}
	if err := os.WriteFile(teiPath, tei, filePermissions); err != nil {
		return fmt.Errorf("writing TEI: %w", err)
	}
	return nil
}

// renderOne parses one TEI file and writes the rendered ODT.
func (s *Sweeper) renderOne(teiPath, outPath string) error {
	tei, err := os.ReadFile(teiPath) // #nosec G304 -- discovered path
	if err != nil {
		return fmt.Errorf("reading TEI: %w", err)
	}
	doc, err := s.conv.Parse(tei)
	if err != nil {
		return err
	}
	odt, err := s.conv.Render(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, odt, filePermissions); err != nil {
		return fmt.Errorf("writing ODT: %w", err)
	}
	return nil
}

// preflight validates the PDF with pdfcpu and logs its page count.
// Validation problems are advisory only: the extraction service is the
// authority on whether it can process the file.
func (s *Sweeper) preflight(path string) {
	f, err := os.Open(path) // #nosec G304 -- discovered path
	if err != nil {
		s.logger.Warn().Err(err).Str("pdf", path).Msg("PDF preflight open failed")
		return
	}
	defer f.Close()

	pctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		s.logger.Warn().Err(err).Str("pdf", path).Msg("PDF preflight validation failed")
		return
	}
	s.logger.Debug().Int("pages", pctx.PageCount).Str("pdf", path).Msg("PDF preflight ok")
}

// findPDFs recursively finds all PDF files under dir.
func findPDFs(dir string) ([]string, error) {
	var pdfs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsPDF(path) {
			return nil
		}
		pdfs = append(pdfs, path)
		return nil
	})
	return pdfs, err
}
