package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	pdf2odt "github.com/alnah/go-pdf2odt"
	"github.com/alnah/go-pdf2odt/internal/config"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Service  serviceInfo `json:"service"`
	Dirs     []dirInfo   `json:"directories"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// serviceInfo holds extraction service probe results.
type serviceInfo struct {
	URL   string `json:"url"`
	Alive bool   `json:"alive"`
	Error string `json:"error,omitempty"`
}

// dirInfo holds directory check results.
type dirInfo struct {
	Role     string `json:"role"`
	Path     string `json:"path"`
	Exists   bool   `json:"exists"`
	Writable bool   `json:"writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, cfg *config.Config, conv *pdf2odt.Converter, out io.Writer, jsonOutput bool) int {
	result := runDoctor(ctx, cfg, conv)

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(out, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, cfg *config.Config, conv *pdf2odt.Converter) *doctorResult {
	result := &doctorResult{
		Status:  "ready",
		Service: serviceInfo{URL: cfg.GrobidURL},
	}

	if err := conv.Alive(ctx); err != nil {
		result.Service.Error = err.Error()
		result.Errors = append(result.Errors,
			fmt.Sprintf("extraction service unreachable at %s: %v", cfg.GrobidURL, err))
	} else {
		result.Service.Alive = true
	}

	checkDir(result, "source", cfg.Source, false)
	checkDir(result, "tei", cfg.TEIDir, true)
	checkDir(result, "output", cfg.Output, true)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkDir records existence and, for writable roles, whether a file can
// be created in the directory. The source directory is never created by
// the sweep, so a missing one is a warning rather than an error.
func checkDir(result *doctorResult, role, path string, needWrite bool) {
	info := dirInfo{Role: role, Path: path}

	if stat, err := os.Stat(path); err == nil && stat.IsDir() {
		info.Exists = true
	} else if !needWrite {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s directory %s does not exist", role, path))
	}

	if needWrite {
		info.Writable = dirWritable(path)
		if !info.Writable {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s directory %s is not writable", role, path))
		}
	}

	result.Dirs = append(result.Dirs, info)
}

// dirWritable reports whether a file can be created in dir, creating the
// directory first if needed (mirrors what the sweep does).
func dirWritable(dir string) bool {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return false
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return true
}

// printDoctorResult writes a human-readable report.
func printDoctorResult(out io.Writer, result *doctorResult) {
	fmt.Fprintf(out, "pdf2odt doctor: %s\n\n", result.Status)

	if result.Service.Alive {
		fmt.Fprintf(out, "  extraction service: ok (%s)\n", result.Service.URL)
	} else {
		fmt.Fprintf(out, "  extraction service: unreachable (%s)\n", result.Service.URL)
	}

	for _, d := range result.Dirs {
		state := "missing"
		if d.Exists {
			state = "ok"
		}
		if d.Writable {
			state += ", writable"
		}
		fmt.Fprintf(out, "  %s directory: %s (%s)\n", d.Role, state, filepath.Clean(d.Path))
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(out, "\nwarning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(out, "\nerror: %s\n", e)
	}
}
