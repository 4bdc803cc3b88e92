package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// RegistryOption configures the built-in parsers of a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	pdfPassword string
}

// WithPDFPassword sets the password the built-in PDF parser uses for
// encrypted documents.
func WithPDFPassword(pw string) RegistryOption {
	return func(o *registryOptions) { o.pdfPassword = pw }
}

type Registry struct {
	parsers map[string]Parser
}

func NewRegistry(opts ...RegistryOption) *Registry {
	var o registryOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{parsers: make(map[string]Parser)}
	// Register built-in parsers
	pdf := &PDFParser{Password: o.pdfPassword}
	docx := &DOCXParser{}

	for _, p := range []Parser{pdf, docx} {
		for _, f := range p.SupportedFormats() {
			r.parsers[f] = p
		}
	}
	return r
}

func (r *Registry) Get(format string) (Parser, error) {
	p, ok := r.parsers[format]
	if !ok {
		return nil, fmt.Errorf("no parser for format: %s", format)
	}
	return p, nil
}

func (r *Registry) Register(format string, p Parser) {
	r.parsers[format] = p
}

// Formats lists the registered formats in sorted order.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.parsers))
	for f := range r.parsers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// FormatOf returns the lower-case extension of path without the dot, the key
// parsers are registered under.
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
