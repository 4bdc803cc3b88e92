package parser

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var errNoDocxBody = errors.New("w:body not found in document.xml")

type DOCXParser struct{}

func (p *DOCXParser) SupportedFormats() []string { return []string{"docx"} }

func (p *DOCXParser) Parse(ctx context.Context, path string) (*ParseResult, error) {
	paras, err := readDocxParagraphs(ctx, path)
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		Text:   joinParagraphs(paras),
		Units:  paras,
		Format: "docx",
		Method: "native",
	}, nil
}

// ExtractDOCX returns the text of every body paragraph of the DOCX file at
// path, each followed by a newline, in document order.
func ExtractDOCX(path string) (string, error) {
	paras, err := readDocxParagraphs(context.Background(), path)
	if err != nil {
		return "", err
	}
	return joinParagraphs(paras), nil
}

func readDocxParagraphs(ctx context.Context, path string) ([]string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOCX: %w", err)
	}
	defer r.Close()

	paras, err := decodeBodyParagraphs(ctx, strings.NewReader(r.Editable().GetContent()))
	if err != nil {
		return nil, fmt.Errorf("parsing DOCX XML: %w", err)
	}

	slog.Debug("docx: extracted paragraphs", "path", path, "paragraphs", len(paras))
	return paras, nil
}

func joinParagraphs(paras []string) string {
	var b strings.Builder
	for _, p := range paras {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

// decodeBodyParagraphs returns the text of each w:p that is a direct child of
// w:body. Paragraphs nested in tables, content controls or text boxes are not
// body paragraphs and are skipped.
func decodeBodyParagraphs(ctx context.Context, r io.Reader) ([]string, error) {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, errNoDocxBody
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "body" {
			return decodeBody(ctx, d)
		}
	}
}

func decodeBody(ctx context.Context, d *xml.Decoder) ([]string, error) {
	paras := make([]string, 0)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "p" {
				if err := d.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			var b strings.Builder
			if err := decodeRunContainer(d, &b); err != nil {
				return nil, err
			}
			paras = append(paras, b.String())
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return paras, nil
		}
	}
}

// decodeRunContainer consumes a w:p (or a w:hyperlink inside one) up to its
// end element, writing the text of its runs to b. Paragraph properties and
// any other children contribute nothing.
func decodeRunContainer(d *xml.Decoder, b *strings.Builder) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			var err error
			switch t.Name.Local {
			case "r":
				err = decodeRun(d, b)
			case "hyperlink":
				err = decodeRunContainer(d, b)
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func decodeRun(d *xml.Decoder, b *strings.Builder) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				var s string
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				b.WriteString(s)
				continue
			}
			b.WriteString(runElementText(t))
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// runElementText maps the non-w:t run children that carry text to their
// plain-text form.
func runElementText(el xml.StartElement) string {
	switch el.Name.Local {
	case "tab", "ptab":
		return "\t"
	case "cr":
		return "\n"
	case "br":
		// Page and column breaks are layout, not text.
		for _, attr := range el.Attr {
			if attr.Name.Local == "type" && attr.Value != "textWrapping" {
				return ""
			}
		}
		return "\n"
	case "noBreakHyphen":
		return "-"
	default:
		return ""
	}
}
