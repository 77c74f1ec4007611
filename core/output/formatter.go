// Package output provides output formatting for daily toll reports.
// This package produces human and machine-readable outputs.
package output

import (
	"io"
	"sort"

	"toll-tracker/core/toll"
	apperrors "toll-tracker/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the report to w
	Render(w io.Writer, report *toll.Report) error
}

// Options tune rendering
type Options struct {
	// ShowDetails adds each vehicle's charging windows
	ShowDetails bool
}

// Registry holds formatters by format
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry returns a registry with the cli and json formatters
func NewRegistry(opts Options) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(NewCLIFormatter(opts))
	r.Register(NewJSONFormatter())
	return r
}

// Register adds or replaces a formatter
func (r *Registry) Register(f Formatter) {
	r.formatters[f.Format()] = f
}

// Get returns the formatter for format
func (r *Registry) Get(format Format) (Formatter, error) {
	f, ok := r.formatters[format]
	if !ok {
		return nil, apperrors.Newf(apperrors.TypeInput, "unknown output format %q", format)
	}
	return f, nil
}

// Formats lists the registered formats, sorted
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
