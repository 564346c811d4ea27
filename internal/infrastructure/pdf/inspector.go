package pdf

import (
	"errors"
	"fmt"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// ErrEmptyDocument is returned for a PDF with no pages
var ErrEmptyDocument = errors.New("PDF has no pages")

// Inspector implements port.AttachmentInspector using mupdf
type Inspector struct {
	logger *zap.Logger
}

// NewInspector creates a new Inspector
func NewInspector(logger *zap.Logger) *Inspector {
	return &Inspector{logger: logger}
}

// PageCount opens data as a PDF and returns its number of pages
func (i *Inspector) PageCount(data []byte) (int, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return 0, ErrEmptyDocument
	}

	i.logger.Debug("PDF inspected", zap.Int("pages", pages), zap.Int("size", len(data)))
	return pages, nil
}
