package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF statements. It rebuilds text rows from glyph
// positions with the Go library first, then falls back to pdftotext if
// enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "stocktax-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPDFRows(tmpPath)
	if err != nil && p.FallbackPdftotext {
		var text string
		text, err = extractPdftotext(tmpPath)
		pages = strings.Split(text, "\f")
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	tree := &doctree.DocTree{Title: titleFromFilename(filename)}
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		tree.Children = append(tree.Children, &doctree.DocNode{
			Title: fmt.Sprintf("Page %d", i+1),
			Text:  page,
			Page:  i + 1,
		})
	}
	return tree, nil
}

// extractPDFRows returns one string per page, one line per text row.
func extractPDFRows(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, joinRow(row.Content))
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages, nil
}

// joinRow concatenates the glyph runs of a row left to right, inserting a
// single space wherever the horizontal gap looks like a word or column break.
func joinRow(texts pdflib.TextHorizontal) string {
	sorted := make([]pdflib.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	var prevEnd float64
	for i, t := range sorted {
		if i > 0 {
			gap := t.X - prevEnd
			if gap > t.FontSize*0.2 && !strings.HasPrefix(t.S, " ") && !strings.HasSuffix(b.String(), " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	return strings.TrimSpace(b.String())
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
