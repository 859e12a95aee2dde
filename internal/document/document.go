package document

import (
	"errors"
	"strings"
)

// Document is an uploaded file held in memory for the duration of one
// request. It is never persisted.
type Document struct {
	Data        []byte
	ContentType string
	FileName    string
	Size        int64
}

// Page is a single rasterized page ready to be sent to a vision model.
type Page struct {
	MIMEType string
	Data     []byte
}

var (
	// ErrUnsupportedFormat is returned for documents that are neither PDF,
	// image, nor plain text.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrNoPages is returned when rasterization yields zero pages.
	ErrNoPages = errors.New("document has no renderable pages")
	// ErrRasterizationFailed wraps any page-render failure.
	ErrRasterizationFailed = errors.New("rasterization failed")
)

// Kind classifies a document for extraction purposes.
type Kind int

const (
	KindUnknown Kind = iota
	KindPDF
	KindImage
	KindText
	KindDOCX
)

const mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var imageMimes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/jpg":  {},
	"image/webp": {},
	"image/bmp":  {},
}

// Kind inspects the declared media type and filename extension.
func (d Document) Kind() Kind {
	mime := strings.ToLower(strings.TrimSpace(strings.Split(d.ContentType, ";")[0]))
	name := strings.ToLower(d.FileName)
	switch {
	case mime == "application/pdf" || strings.HasSuffix(name, ".pdf"):
		return KindPDF
	case mime == "text/plain" || strings.HasSuffix(name, ".txt"):
		return KindText
	case mime == mimeDOCX || strings.HasSuffix(name, ".docx"):
		return KindDOCX
	default:
		if _, ok := imageMimes[mime]; ok {
			return KindImage
		}
		return KindUnknown
	}
}

// ImageMIME returns the normalized image media type; the common image/jpg
// alias is folded into the standard image/jpeg.
func (d Document) ImageMIME() string {
	mime := strings.ToLower(strings.TrimSpace(strings.Split(d.ContentType, ";")[0]))
	if mime == "image/jpg" {
		return "image/jpeg"
	}
	return mime
}
