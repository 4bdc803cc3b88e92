// Package testdocs writes small DOCX and PDF fixtures for tests.
package testdocs

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DocxNS declares the WordprocessingML prefixes used by DOCX fixtures.
const DocxNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

// Paragraphs renders one single-run w:p per entry.
func Paragraphs(texts ...string) string {
	var b strings.Builder
	for _, text := range texts {
		if text == "" {
			b.WriteString(`<w:p/>`)
			continue
		}
		b.WriteString(`<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`)
	}
	return b.String()
}

// DOCX builds a minimal .docx ZIP in a temp dir whose w:body holds bodyXML
// and returns its path.
func DOCX(t *testing.T, bodyXML string) string {
	t.Helper()
	docxPath := filepath.Join(t.TempDir(), "test.docx")

	f, err := os.Create(docxPath)
	if err != nil {
		t.Fatalf("creating docx file: %v", err)
	}

	w := zip.NewWriter(f)

	contentTypes := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`
	addZipFile(t, w, "[Content_Types].xml", []byte(contentTypes))

	docXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document ` + DocxNS + `>
  <w:body>` + bodyXML + `</w:body>
</w:document>`
	addZipFile(t, w, "word/document.xml", []byte(docXML))

	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
	addZipFile(t, w, "word/_rels/document.xml.rels", []byte(rels))

	if err := w.Close(); err != nil {
		t.Fatalf("closing zip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing file: %v", err)
	}

	return docxPath
}

func addZipFile(t *testing.T, w *zip.Writer, name string, data []byte) {
	t.Helper()
	fw, err := w.Create(name)
	if err != nil {
		t.Fatalf("creating zip entry %s: %v", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("writing zip entry %s: %v", name, err)
	}
}

// PDF writes a minimal uncompressed PDF with one page per entry of pages and
// returns its path. A non-empty entry is drawn as a single Helvetica text
// line; an empty entry produces a page with an empty content stream.
func PDF(t *testing.T, pages []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(path, pdfBytes(pages), 0o644); err != nil {
		t.Fatalf("writing pdf: %v", err)
	}
	return path
}

// PDFContent is PDF with each page's content stream given verbatim.
func PDFContent(t *testing.T, streams []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "content.pdf")
	if err := os.WriteFile(path, pdfFromStreams(streams), 0o644); err != nil {
		t.Fatalf("writing pdf: %v", err)
	}
	return path
}

// EncryptedPDF is PDF encrypted with AES-256, using password as both the
// user and the owner password.
func EncryptedPDF(t *testing.T, pages []string, password string) string {
	t.Helper()
	return encryptPDF(t, pages, password, password)
}

// OwnerLockedPDF is PDF encrypted with AES-256 under an owner password only.
// Readers open it without a password.
func OwnerLockedPDF(t *testing.T, pages []string, ownerPassword string) string {
	t.Helper()
	return encryptPDF(t, pages, "", ownerPassword)
}

func encryptPDF(t *testing.T, pages []string, userPW, ownerPW string) string {
	t.Helper()
	api.DisableConfigDir()

	conf := model.NewAESConfiguration(userPW, ownerPW, 256)
	var out bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(pdfBytes(pages)), &out, conf); err != nil {
		t.Fatalf("encrypting pdf: %v", err)
	}

	path := filepath.Join(t.TempDir(), "encrypted.pdf")
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatalf("writing pdf: %v", err)
	}
	return path
}

func pdfBytes(pages []string) []byte {
	streams := make([]string, len(pages))
	for i, text := range pages {
		if text != "" {
			streams[i] = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		}
	}
	return pdfFromStreams(streams)
}

func pdfFromStreams(streams []string) []byte {
	// Object layout: 1 catalog, 2 page tree, 3 font, then a page/content
	// pair per page.
	kids := make([]string, 0, len(streams))
	for i := range streams {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(streams)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, stream := range streams {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i))
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)
	return buf.Bytes()
}
