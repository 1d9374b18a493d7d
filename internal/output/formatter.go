// Package output renders whensort check results in different formats
// (JSON, SARIF, Markdown, pretty terminal).
package output

import (
	"fmt"

	"github.com/chris-regnier/whensort/internal/driver"
)

// FileReport is the outcome of checking one file.
type FileReport struct {
	Path        string              `json:"path"`
	Diagnostics []driver.Diagnostic `json:"diagnostics"`

	// Fixed is true when --fix rewrote the file.
	Fixed bool `json:"fixed,omitempty"`

	// Passes counts the correction rounds applied with --fix.
	Passes int `json:"passes,omitempty"`

	// Source is the original file content, used by the pretty formatter to
	// show offending lines. Not serialized.
	Source []byte `json:"-"`
}

// Report holds the complete results of a whensort run.
type Report struct {
	Tool    string       `json:"tool"`
	Version string       `json:"version"`
	Files   []FileReport `json:"files"`
}

// TotalOffenses counts diagnostics across all files.
func (r *Report) TotalOffenses() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Diagnostics)
	}
	return n
}

// Formatter renders a Report into a byte slice in a specific format.
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// ResolveFormat determines the output format to use. If flagValue is
// non-empty, it is returned directly. Otherwise, "pretty" is returned for
// TTY output and "json" for non-TTY (piped) output.
func ResolveFormat(flagValue string, stdoutIsTTY bool) string {
	if flagValue != "" {
		return flagValue
	}
	if stdoutIsTTY {
		return "pretty"
	}
	return "json"
}

// NewFormatter returns a Formatter for the given format name.
// Supported formats: "json", "sarif", "markdown", "pretty".
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "json":
		return &JSONFormatter{}, nil
	case "sarif":
		return &SARIFFormatter{}, nil
	case "markdown":
		return &MarkdownFormatter{}, nil
	case "pretty":
		return &PrettyFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %q (supported: json, sarif, markdown, pretty)", format)
	}
}
