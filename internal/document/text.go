package document

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"internship-sniper-backend/internal/telemetry"
)

// TextExtractor produces best-effort plain text from a document. It never
// returns an error: callers must treat an empty result as "extraction
// failed". PDF text comes from the embedded text layer, images go through
// tesseract OCR, DOCX through its document XML.
type TextExtractor struct {
	Tesseract string // binary name or absolute path; empty -> "tesseract"
	Lang      string // OCR language hint; empty -> "eng"
	Runner    Runner
}

// NewTextExtractor returns a TextExtractor with defaults applied.
func NewTextExtractor(tesseract string) *TextExtractor {
	return &TextExtractor{Tesseract: tesseract}
}

// Extract returns the plain text content of the document, or "" on any
// failure.
func (e *TextExtractor) Extract(ctx context.Context, doc Document) string {
	if ctx.Err() != nil {
		return ""
	}
	switch doc.Kind() {
	case KindPDF:
		return extractPDFText(doc.Data)
	case KindText:
		return string(doc.Data)
	case KindDOCX:
		return extractDOCXText(doc.Data)
	case KindImage:
		return e.ocr(ctx, doc)
	default:
		return ""
	}
}

// extractPDFText walks every page in order, joining text tokens with single
// spaces within a page and a newline between pages.
func extractPDFText(data []byte) (out string) {
	// The pdf library panics on some malformed documents.
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Warn("document.pdf_text.panic", map[string]any{"error": rec})
			out = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		tokens := make([]string, 0, len(content.Text))
		for _, t := range content.Text {
			if t.S != "" {
				tokens = append(tokens, t.S)
			}
		}
		b.WriteString(strings.Join(tokens, " "))
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func extractDOCXText(data []byte) string {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	defer doc.Close()
	return stripDocXML(doc.Editable().GetContent())
}

// stripDocXML reduces WordprocessingML to its character data, inserting a
// newline at paragraph and line-break boundaries.
func stripDocXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return strings.TrimSpace(raw)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func (e *TextExtractor) ocr(ctx context.Context, doc Document) string {
	runner := e.Runner
	if runner == nil {
		runner = execRunner{}
	}
	bin := e.Tesseract
	if bin == "" {
		bin = "tesseract"
	}
	lang := e.Lang
	if lang == "" {
		lang = "eng"
	}

	tmpDir, err := os.MkdirTemp("", "sniper-ocr-*")
	if err != nil {
		return ""
	}
	defer os.RemoveAll(tmpDir)

	src := filepath.Join(tmpDir, "in"+imageExt(doc.ImageMIME()))
	if err := os.WriteFile(src, doc.Data, 0o600); err != nil {
		return ""
	}

	// tesseract <file> stdout -l eng
	out, errb, err := runner.Run(ctx, bin, src, "stdout", "-l", lang)
	if err != nil {
		telemetry.Warn("document.ocr.failed", map[string]any{
			"error":  err.Error(),
			"stderr": string(errb),
		})
		return ""
	}
	return string(out)
}

func imageExt(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".jpg"
	}
}
