package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
)

// UnsupportedSentinel is returned in place of text for files the extractor
// cannot read. Downstream stages must tolerate it: the pipeline still
// reaches a terminal status, producing a minimal summary and placeholder
// figures rather than failing outright.
const UnsupportedSentinel = "Unsupported file format"

// Text converts the document at path into plain text, dispatching on the
// file extension. Text and markdown files are read verbatim. PDF files are
// extracted page by page; each page is prefixed with a page marker for later
// source attribution and pages are joined with blank lines. Unsupported
// extensions return UnsupportedSentinel with no error.
func Text(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return string(data), nil
	case ".pdf":
		return pdfText(ctx, path)
	default:
		slog.Warn("unsupported file format", "path", path)
		return UnsupportedSentinel, nil
	}
}

// pdfText extracts a PDF page by page. Parse failures degrade to the
// sentinel; only failure to open the file at all surfaces as an error.
func pdfText(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	docs, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		slog.Warn("failed to parse PDF, continuing with sentinel text", "path", path, "err", err)
		return UnsupportedSentinel, nil
	}
	if len(docs) == 0 {
		slog.Warn("PDF contains no extractable pages", "path", path)
		return UnsupportedSentinel, nil
	}

	var b strings.Builder
	for i, doc := range docs {
		page := i + 1
		if n, ok := doc.Metadata["page"].(int); ok && n > 0 {
			page = n
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(PageMarker(page))
		b.WriteString("\n")
		b.WriteString(doc.PageContent)
	}
	return b.String(), nil
}
