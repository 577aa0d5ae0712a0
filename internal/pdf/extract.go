// Package pdf extracts page-delimited text from PDF files via go-fitz.
package pdf

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/dexter-eng/bidextract/constants"
	"github.com/dexter-eng/bidextract/internal/common"
)

// Extractor reads PDF text page by page and joins the pages with the
// pipeline's literal page markers.
type Extractor struct {
	log *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{log: logger}
}

// ExtractText returns the page-delimited text and the page count.
func (e *Extractor) ExtractText(path string) (string, int, error) {
	if _, err := os.Stat(path); err != nil {
		return "", 0, fmt.Errorf("pdf %s: %w", path, common.ErrNotFound)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", 0, fmt.Errorf("opening pdf: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	e.log.Info("pdf.opened", "path", path, "pages", pages)

	var parts []string
	for i := 0; i < pages; i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", 0, fmt.Errorf("extracting page %d: %w", i+1, err)
		}
		parts = append(parts, fmt.Sprintf(constants.PageMarkerFormat, i+1)+text)
	}

	full := strings.TrimSpace(strings.Join(parts, ""))
	e.log.Info("pdf.extracted", "path", path, "pages", pages, "chars", len(full))
	return full, pages, nil
}
