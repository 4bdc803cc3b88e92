package parser

import "context"

// ParseResult is what a parser produces from a document file.
type ParseResult struct {
	Text   string   // Flattened text, exactly as returned by ExtractDOCX/ExtractPDF
	Units  []string // Ordered paragraph or page texts that produced Text
	Format string   // "docx", "pdf"
	Method string   // "native", "decrypted"
}

// Parser can parse a specific document format.
type Parser interface {
	Parse(ctx context.Context, path string) (*ParseResult, error)
	SupportedFormats() []string
}
