package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	pdf2odt "github.com/alnah/go-pdf2odt"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, args, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(ExitSuccess)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}

	if flags.version {
		fmt.Println("pdf2odt " + Version)
		return
	}

	logger := newLogger(os.Stderr, flags.verbose, flags.quiet)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...interface{}) {
		logger.Debug().Msgf(format, a...)
	}))

	cfg, err := resolveConfig(flags)
	if err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		os.Exit(exitCodeFor(err))
	}

	conv := pdf2odt.NewConverter(
		pdf2odt.WithGrobidURL(cfg.GrobidURL),
		pdf2odt.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		pdf2odt.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(args) > 0 && args[0] == "doctor" {
		os.Exit(runDoctorCmd(ctx, cfg, conv, os.Stdout, flags.jsonOutput))
	}

	sweeper := NewSweeper(cfg, conv, logger)
	if err := sweeper.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("sweep failed")
		os.Exit(exitCodeFor(err))
	}
}

// newLogger builds the console logger. Verbose lowers the level to debug,
// quiet raises it to error; verbose wins if both are set.
func newLogger(w io.Writer, verbose, quiet bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if quiet {
		level = zerolog.ErrorLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
