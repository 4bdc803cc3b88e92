// Package doctext extracts plain text from DOCX and PDF documents.
//
// DOCX output is every body paragraph followed by "\n". PDF output is every
// page's text followed by "\n==== PAGE END ====\n". Errors from the
// underlying document libraries reach the caller unchanged in identity.
package doctext

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/brunobiangulo/doctext/parser"
)

// PageEndMarker closes every page of PDF output.
const PageEndMarker = parser.PageEndMarker

// Result is the text extracted from one document.
type Result struct {
	Path   string   `json:"path"`
	Format string   `json:"format"`
	Text   string   `json:"text"`
	Units  []string `json:"units,omitempty"` // paragraphs (docx) or pages (pdf)
	Method string   `json:"method"`
}

// ExtractOption configures a single Extract call.
type ExtractOption func(*extractOptions)

type extractOptions struct {
	pdfPassword *string
}

// WithPDFPassword overrides the configured PDF password for this call.
func WithPDFPassword(pw string) ExtractOption {
	return func(o *extractOptions) { o.pdfPassword = &pw }
}

// Extractor selects a parser by file extension and returns the document text.
// It holds no per-document state and is safe for concurrent use.
type Extractor struct {
	parsers *parser.Registry
}

// New creates an Extractor with the given configuration.
func New(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Extractor{
		parsers: parser.NewRegistry(parser.WithPDFPassword(cfg.PDFPassword)),
	}, nil
}

// Extract returns the text of the document at path. The extension decides
// the format; unknown extensions fail with ErrUnsupportedFormat before the
// file is opened.
func (e *Extractor) Extract(ctx context.Context, path string, opts ...ExtractOption) (*Result, error) {
	var o extractOptions
	for _, opt := range opts {
		opt(&o)
	}

	format := parser.FormatOf(path)
	p, err := e.parsers.Get(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if o.pdfPassword != nil {
		if _, ok := p.(*parser.PDFParser); ok {
			p = &parser.PDFParser{Password: *o.pdfPassword}
		}
	}

	start := time.Now()
	res, err := p.Parse(ctx, path)
	if err != nil {
		return nil, err
	}

	slog.Debug("doctext: extracted",
		"path", path, "format", format, "method", res.Method,
		"units", len(res.Units), "bytes", len(res.Text), "elapsed", time.Since(start))

	return &Result{
		Path:   path,
		Format: res.Format,
		Text:   res.Text,
		Units:  res.Units,
		Method: res.Method,
	}, nil
}

// Supports reports whether path has an extension the Extractor handles.
func (e *Extractor) Supports(path string) bool {
	_, err := e.parsers.Get(parser.FormatOf(path))
	return err == nil
}

// Formats lists the supported formats.
func (e *Extractor) Formats() []string {
	return e.parsers.Formats()
}

// ExtractDOCX returns the paragraph text of a DOCX file.
func ExtractDOCX(path string) (string, error) {
	return parser.ExtractDOCX(path)
}

// ExtractPDF returns the page text of a PDF file with page-end markers.
func ExtractPDF(path string) (string, error) {
	return parser.ExtractPDF(path)
}
