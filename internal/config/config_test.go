package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-pdf2odt/internal/config"
)

// writeConfig writes a temp config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pdf2odt.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestDefaultConfig - Defaults
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	if cfg.Source != config.DefaultSource {
		t.Errorf("Source = %q, want %q", cfg.Source, config.DefaultSource)
	}
	if cfg.GrobidURL != config.DefaultGrobidURL {
		t.Errorf("GrobidURL = %q, want %q", cfg.GrobidURL, config.DefaultGrobidURL)
	}
	if cfg.TimeoutSeconds != config.DefaultTimeout {
		t.Errorf("TimeoutSeconds = %d, want %d", cfg.TimeoutSeconds, config.DefaultTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
source: papers
tei: intermediate
grobidURL: http://grobid.internal:8070
timeoutSeconds: 60
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Source != "papers" {
		t.Errorf("Source = %q, want papers", cfg.Source)
	}
	if cfg.TEIDir != "intermediate" {
		t.Errorf("TEIDir = %q, want intermediate", cfg.TEIDir)
	}
	// Unset fields keep their defaults.
	if cfg.Output != config.DefaultOutput {
		t.Errorf("Output = %q, want default %q", cfg.Output, config.DefaultOutput)
	}
	if cfg.GrobidURL != "http://grobid.internal:8070" {
		t.Errorf("GrobidURL = %q", cfg.GrobidURL)
	}
	if cfg.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, want 60", cfg.TimeoutSeconds)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			wantErr: config.ErrConfigNotFound,
		},
		{
			name:    "malformed yaml",
			path:    func(t *testing.T) string { return writeConfig(t, "source: [unclosed") },
			wantErr: config.ErrConfigParse,
		},
		{
			name:    "invalid timeout",
			path:    func(t *testing.T) string { return writeConfig(t, "timeoutSeconds: -5") },
			wantErr: config.ErrInvalidTimeout,
		},
		{
			name:    "invalid endpoint",
			path:    func(t *testing.T) string { return writeConfig(t, "grobidURL: ftp://grobid") },
			wantErr: config.ErrInvalidEndpoint,
		},
		{
			name:    "empty directory",
			path:    func(t *testing.T) string { return writeConfig(t, `source: "  "`) },
			wantErr: config.ErrEmptyDir,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.LoadConfig(tt.path(t))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
