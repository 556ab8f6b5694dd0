// Package source supplies per-page text lines and image placements from an
// exam document.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/qbank/internal/bank"
)

var (
	// ErrUnsupportedFormat is returned for files that are not PDFs.
	ErrUnsupportedFormat = errors.New("source: unsupported document format")

	// ErrPageOutOfRange is returned for page numbers outside 1..NumPages.
	ErrPageOutOfRange = errors.New("source: page out of range")

	// ErrImageNotFound is returned when an image handle does not resolve.
	ErrImageNotFound = errors.New("source: image not found")
)

// Span is one line of text on a page.
type Span struct {
	BBox bank.BBox
	Text string
}

// Placement is one visual occurrence of an image. The same Handle may be
// placed several times.
type Placement struct {
	BBox   bank.BBox
	Handle int
}

// Page holds everything the pipeline needs from one page.
type Page struct {
	Number int
	Width  float64
	Height float64
	Lines  []Span
	Images []Placement
}

// ImageData is the stored content of an image and its format hint
// ("png", "jpg", ...).
type ImageData struct {
	Bytes  []byte
	Format string
}

// ImageSource resolves image handles to bytes. Repeated calls with the same
// handle return identical bytes.
type ImageSource interface {
	Image(handle int) (ImageData, error)
}

// Document is an opened exam document.
type Document interface {
	ImageSource
	Name() string
	NumPages() int
	Page(n int) (Page, error)
	Close() error
}

// SupportedExtensions lists file extensions this tool can read.
var SupportedExtensions = map[string]bool{
	".pdf": true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ForFile opens path with the reader matching its extension.
func ForFile(path string, opts Options) (Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return OpenPDF(path, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ReadAll loads every page of doc in page order.
func ReadAll(doc Document) ([]Page, error) {
	pages := make([]Page, 0, doc.NumPages())
	for n := 1; n <= doc.NumPages(); n++ {
		p, err := doc.Page(n)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}
