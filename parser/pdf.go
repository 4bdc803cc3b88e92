package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageEndMarker closes every page in ExtractPDF output. Consumers split on it
// to recover page boundaries, so it must not change.
const PageEndMarker = "==== PAGE END ===="

const pageEnd = "\n" + PageEndMarker + "\n"

// pdfcpu would otherwise create its config directory under the user's
// config dir on first use.
var disablePDFCPUConfig sync.Once

type PDFParser struct {
	// Password unlocks encrypted PDFs. It may be the user or owner password.
	Password string
}

func (p *PDFParser) SupportedFormats() []string { return []string{"pdf"} }

func (p *PDFParser) Parse(ctx context.Context, path string) (*ParseResult, error) {
	pages, method, err := readPDFPages(ctx, path, p.Password)
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		Text:   joinPages(pages),
		Units:  pages,
		Format: "pdf",
		Method: method,
	}, nil
}

// ExtractPDF returns the text of every page of the PDF file at path, each
// followed by PageEndMarker on its own line. Pages without extractable text
// contribute only the marker.
func ExtractPDF(path string) (string, error) {
	return ExtractPDFWithPassword(path, "")
}

// ExtractPDFWithPassword is ExtractPDF for encrypted documents.
func ExtractPDFWithPassword(path, password string) (string, error) {
	pages, _, err := readPDFPages(context.Background(), path, password)
	if err != nil {
		return "", err
	}
	return joinPages(pages), nil
}

func readPDFPages(ctx context.Context, path, password string) ([]string, string, error) {
	f, reader, err := pdf.Open(path)
	if err == nil {
		defer f.Close()
		pages, err := pageTexts(ctx, path, reader)
		return pages, "native", err
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return nil, "", fmt.Errorf("opening PDF: %w", err)
	}

	// An empty password still opens files that only carry an owner password.
	reader, derr := openDecrypted(path, password)
	if derr != nil {
		return nil, "", fmt.Errorf("opening PDF: %w", errors.Join(err, derr))
	}
	slog.Debug("pdf: opened decrypted copy", "path", path, "password_set", password != "")

	pages, err := pageTexts(ctx, path, reader)
	return pages, "decrypted", err
}

// openDecrypted decrypts the file at path with pdfcpu and reads the
// decrypted copy from memory.
func openDecrypted(path, password string) (*pdf.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	disablePDFCPUConfig.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	var buf bytes.Buffer
	if err := api.Decrypt(f, &buf, conf); err != nil {
		return nil, fmt.Errorf("decrypting PDF: %w", err)
	}

	data := buf.Bytes()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func pageTexts(ctx context.Context, path string, reader *pdf.Reader) ([]string, error) {
	totalPages := reader.NumPage()
	pages := make([]string, 0, totalPages)

	for i := 1; i <= totalPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, pageText(path, reader.Page(i), i))
	}

	slog.Debug("pdf: extracted pages", "path", path, "pages", totalPages)
	return pages, nil
}

// pageText returns the page text without surrounding whitespace, or "" for
// pages that have no text to give: missing page objects, image-only pages
// and content the reader cannot interpret.
func pageText(path string, page pdf.Page, pageNum int) string {
	if page.V.IsNull() {
		slog.Debug("pdf: page object missing", "path", path, "page", pageNum)
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		slog.Debug("pdf: page yielded no text", "path", path, "page", pageNum, "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

func joinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		b.WriteString(pageEnd)
	}
	return b.String()
}
