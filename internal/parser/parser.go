package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/doctree"
)

// Parser converts a statement into page-ordered plain text lines.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// Options tune the parsers returned by ForFile.
type Options struct {
	// FallbackPdftotext runs `pdftotext -layout` when the Go PDF reader fails.
	FallbackPdftotext bool
}

// SupportedExtensions lists file extensions a statement can come in.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
	".xlsx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".xlsx":
		return &XLSXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// titleFromFilename strips the directory and extension.
func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// singlePage wraps text as a one-page tree, or an empty tree for blank text.
func singlePage(title string, lines []string) *doctree.DocTree {
	tree := &doctree.DocTree{Title: title}
	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) != "" {
		tree.Children = []*doctree.DocNode{{Text: text, Page: 1}}
	}
	return tree
}
