package parser

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brunobiangulo/doctext/internal/testdocs"
)

func TestExtractPDF(t *testing.T) {
	path := testdocs.PDF(t, []string{"Hello", ""})

	got, err := ExtractPDF(path)
	if err != nil {
		t.Fatalf("ExtractPDF: %v", err)
	}

	want := "Hello\n==== PAGE END ====\n\n==== PAGE END ====\n"
	if got != want {
		t.Errorf("ExtractPDF = %q, want %q", got, want)
	}
}

func TestExtractPDFUninterpretableContent(t *testing.T) {
	path := testdocs.PDFContent(t, []string{
		"BT /F9 12 Tf (unterminated Tj ET ] ] >> <<",
		"BT /F1 12 Tf 72 712 Td (After) Tj ET",
	})

	got, err := ExtractPDF(path)
	if err != nil {
		t.Fatalf("ExtractPDF: %v", err)
	}

	want := "\n==== PAGE END ====\nAfter\n==== PAGE END ====\n"
	if got != want {
		t.Errorf("ExtractPDF = %q, want %q", got, want)
	}
}

func TestExtractPDFWhitespaceOnlyPage(t *testing.T) {
	path := testdocs.PDF(t, []string{"   "})

	got, err := ExtractPDF(path)
	if err != nil {
		t.Fatalf("ExtractPDF: %v", err)
	}
	if got != pageEnd {
		t.Errorf("ExtractPDF = %q, want %q", got, pageEnd)
	}
}

func TestExtractPDFMarkerPerPage(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
	}{
		{"single_page", []string{"One"}},
		{"all_text", []string{"One", "Two", "Three"}},
		{"all_empty", []string{"", "", "", ""}},
		{"mixed", []string{"", "Second", "", "Fourth", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testdocs.PDF(t, tt.pages)

			got, err := ExtractPDF(path)
			if err != nil {
				t.Fatalf("ExtractPDF: %v", err)
			}
			if n := strings.Count(got, PageEndMarker); n != len(tt.pages) {
				t.Errorf("marker count = %d, want %d", n, len(tt.pages))
			}

			// Page text must appear in page order, each before its own marker.
			chunks := strings.Split(got, pageEnd)
			if len(chunks) != len(tt.pages)+1 || chunks[len(chunks)-1] != "" {
				t.Fatalf("unexpected page chunks %q", chunks)
			}
			for i, want := range tt.pages {
				if chunks[i] != want {
					t.Errorf("page %d = %q, want %q", i+1, chunks[i], want)
				}
			}
		})
	}
}

func TestExtractPDFIdempotent(t *testing.T) {
	path := testdocs.PDF(t, []string{"Alpha", "", "Gamma"})

	first, err := ExtractPDF(path)
	if err != nil {
		t.Fatalf("first ExtractPDF: %v", err)
	}
	second, err := ExtractPDF(path)
	if err != nil {
		t.Fatalf("second ExtractPDF: %v", err)
	}
	if first != second {
		t.Errorf("re-extraction differs:\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestExtractPDFNonexistentPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.pdf")

	got, err := ExtractPDF(path)
	if err == nil {
		t.Fatalf("expected error for missing file, got %q", got)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected error to wrap fs.ErrNotExist, got %v", err)
	}
	if got != "" {
		t.Errorf("expected no partial result, got %q", got)
	}
}

func TestExtractPDFWithPasswordNonexistentPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.pdf")

	_, err := ExtractPDFWithPassword(path, "secret")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected error to wrap fs.ErrNotExist, got %v", err)
	}
}

func TestExtractPDFMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.pdf")
	if err := os.WriteFile(path, []byte(strings.Repeat("not a pdf at all\n", 20)), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ExtractPDF(path)
	if err == nil {
		t.Fatalf("expected error for malformed PDF, got %q", got)
	}
}

func TestExtractPDFWithPasswordUnencrypted(t *testing.T) {
	path := testdocs.PDF(t, []string{"Plain"})

	withPW, err := ExtractPDFWithPassword(path, "ignored")
	if err != nil {
		t.Fatalf("ExtractPDFWithPassword: %v", err)
	}
	without, err := ExtractPDF(path)
	if err != nil {
		t.Fatalf("ExtractPDF: %v", err)
	}
	if withPW != without {
		t.Errorf("password should not change output of an unencrypted PDF:\n%q\n%q", withPW, without)
	}
}

func TestExtractPDFEncrypted(t *testing.T) {
	path := testdocs.EncryptedPDF(t, []string{"Secret", ""}, "open-sesame")

	t.Run("no_password", func(t *testing.T) {
		got, err := ExtractPDF(path)
		if err == nil {
			t.Fatalf("expected error for encrypted PDF without password, got %q", got)
		}
		if got != "" {
			t.Errorf("expected no partial result, got %q", got)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		if _, err := ExtractPDFWithPassword(path, "nope"); err == nil {
			t.Fatal("expected error for wrong password")
		}
	})

	t.Run("correct_password", func(t *testing.T) {
		got, err := ExtractPDFWithPassword(path, "open-sesame")
		if err != nil {
			t.Fatalf("ExtractPDFWithPassword: %v", err)
		}
		if want := "Secret" + pageEnd + pageEnd; got != want {
			t.Errorf("ExtractPDFWithPassword = %q, want %q", got, want)
		}
	})

	t.Run("parser_reports_method", func(t *testing.T) {
		p := &PDFParser{Password: "open-sesame"}
		result, err := p.Parse(context.Background(), path)
		if err != nil {
			t.Fatalf("parsing encrypted PDF: %v", err)
		}
		if result.Method != "decrypted" {
			t.Errorf("Method = %q, want decrypted", result.Method)
		}
		if len(result.Units) != 2 {
			t.Errorf("got %d units, want 2", len(result.Units))
		}
	})
}

func TestExtractPDFOwnerPasswordOnly(t *testing.T) {
	path := testdocs.OwnerLockedPDF(t, []string{"Open", ""}, "owner-only")

	got, err := ExtractPDF(path)
	if err != nil {
		t.Fatalf("ExtractPDF: %v", err)
	}
	if want := "Open" + pageEnd + pageEnd; got != want {
		t.Errorf("ExtractPDF = %q, want %q", got, want)
	}

	p := &PDFParser{}
	result, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Method != "decrypted" {
		t.Errorf("Method = %q, want decrypted", result.Method)
	}
}

func TestPDFParserParse(t *testing.T) {
	path := testdocs.PDF(t, []string{"Hello", ""})

	p := &PDFParser{}
	result, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("parsing PDF: %v", err)
	}

	if result.Format != "pdf" {
		t.Errorf("Format = %q, want pdf", result.Format)
	}
	if result.Method != "native" {
		t.Errorf("Method = %q, want native", result.Method)
	}
	if len(result.Units) != 2 {
		t.Fatalf("got %d units, want 2", len(result.Units))
	}
	if result.Units[0] != "Hello" || result.Units[1] != "" {
		t.Errorf("Units = %q, want [Hello \"\"]", result.Units)
	}
	if result.Text != joinPages(result.Units) {
		t.Errorf("Text does not match joined units: %q", result.Text)
	}
}

func TestPDFParserCanceledContext(t *testing.T) {
	path := testdocs.PDF(t, []string{"Hello"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &PDFParser{}
	result, err := p.Parse(ctx, path)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result on cancellation, got %+v", result)
	}
}

func TestJoinPages(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{"no_pages", nil, ""},
		{"text_then_empty", []string{"Hello", ""}, "Hello\n==== PAGE END ====\n\n==== PAGE END ====\n"},
		{"single_empty", []string{""}, "\n==== PAGE END ====\n"},
		{"keeps_page_newlines", []string{"a\nb\n"}, "a\nb\n\n==== PAGE END ====\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinPages(tt.pages); got != tt.want {
				t.Errorf("joinPages(%q) = %q, want %q", tt.pages, got, tt.want)
			}
		})
	}
}
