package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	// Pages beyond this cap are silently ignored to bound token cost and
	// request size on the vision tier.
	defaultMaxPages = 3
	defaultDPI      = 96
	defaultQuality  = 80
)

// Rasterizer renders a PDF or image document into standalone page images.
// PDF pages are rendered with poppler's pdftoppm; images pass through
// unchanged.
type Rasterizer struct {
	Pdftoppm string // binary name or absolute path; empty -> "pdftoppm"
	Runner   Runner
	MaxPages int
	DPI      int
	Quality  int
}

// NewRasterizer returns a Rasterizer with defaults applied.
func NewRasterizer(pdftoppm string) *Rasterizer {
	return &Rasterizer{Pdftoppm: pdftoppm}
}

// Rasterize converts the document into an ordered sequence of JPEG pages.
// Any page-render error aborts the whole document; partial page sets are
// never returned.
func (r *Rasterizer) Rasterize(ctx context.Context, doc Document) ([]Page, error) {
	switch doc.Kind() {
	case KindPDF:
		return r.rasterizePDF(ctx, doc)
	case KindImage:
		return []Page{{MIMEType: doc.ImageMIME(), Data: doc.Data}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, doc.ContentType)
	}
}

func (r *Rasterizer) rasterizePDF(ctx context.Context, doc Document) ([]Page, error) {
	runner := r.Runner
	if runner == nil {
		runner = execRunner{}
	}
	bin := r.Pdftoppm
	if bin == "" {
		bin = "pdftoppm"
	}
	maxPages := r.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	dpi := r.DPI
	if dpi <= 0 {
		dpi = defaultDPI
	}
	quality := r.Quality
	if quality <= 0 {
		quality = defaultQuality
	}

	tmpDir, err := os.MkdirTemp("", "sniper-raster-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterizationFailed, err)
	}
	defer os.RemoveAll(tmpDir)

	src := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(src, doc.Data, 0o600); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterizationFailed, err)
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -jpeg -jpegopt quality=80 -r 96 -f 1 -l 3 in.pdf page
	_, errb, err := runner.Run(ctx, bin,
		"-jpeg",
		"-jpegopt", fmt.Sprintf("quality=%d", quality),
		"-r", fmt.Sprintf("%d", dpi),
		"-f", "1",
		"-l", fmt.Sprintf("%d", maxPages),
		src, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrRasterizationFailed, err, string(errb))
	}

	matches, _ := filepath.Glob(prefix + "-*.jpg")
	sort.Strings(matches)
	if len(matches) > maxPages {
		matches = matches[:maxPages]
	}
	if len(matches) == 0 {
		return nil, ErrNoPages
	}

	pages := make([]Page, 0, len(matches))
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRasterizationFailed, err)
		}
		pages = append(pages, Page{MIMEType: "image/jpeg", Data: data})
	}
	return pages, nil
}
