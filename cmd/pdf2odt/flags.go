package main

import (
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-pdf2odt/internal/config"
)

// cliFlags holds parsed command-line flags.
type cliFlags struct {
	config     string
	source     string
	teiDir     string
	output     string
	grobidURL  string
	timeout    int
	verbose    bool
	quiet      bool
	version    bool
	jsonOutput bool
}

// parseFlags parses command-line arguments. Returns the flags, remaining
// positional arguments (e.g. the doctor subcommand), and any parse error.
func parseFlags(args []string) (*cliFlags, []string, error) {
	flags := &cliFlags{}

	fs := flag.NewFlagSet("pdf2odt", flag.ContinueOnError)
	fs.StringVarP(&flags.config, "config", "c", "", "path to YAML config file")
	fs.StringVar(&flags.source, "source", "", "source directory with input PDFs (searched recursively)")
	fs.StringVar(&flags.teiDir, "tei-dir", "", "directory for intermediate TEI files")
	fs.StringVarP(&flags.output, "output", "o", "", "directory for rendered ODT files")
	fs.StringVar(&flags.grobidURL, "grobid-url", "", "base URL of the GROBID service")
	fs.IntVar(&flags.timeout, "timeout", 0, "extraction request timeout in seconds")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVarP(&flags.quiet, "quiet", "q", false, "log errors only")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")
	fs.BoolVar(&flags.jsonOutput, "json", false, "machine-readable doctor output")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return flags, fs.Args(), nil
}

// resolveConfig loads the config file (if any) and merges flags over it.
// Flags win over file values; unset fields keep defaults.
func resolveConfig(flags *cliFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.config != "" {
		var err error
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			return nil, err
		}
	}

	if flags.source != "" {
		cfg.Source = flags.source
	}
	if flags.teiDir != "" {
		cfg.TEIDir = flags.teiDir
	}
	if flags.output != "" {
		cfg.Output = flags.output
	}
	if flags.grobidURL != "" {
		cfg.GrobidURL = flags.grobidURL
	}
	if flags.timeout != 0 {
		cfg.TimeoutSeconds = flags.timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
