package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/doctree"
)

// DOCXParser handles .docx statements. Each paragraph becomes a line and
// each table row becomes one line with its cells separated by spaces, which
// is the shape the row scanner expects.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "stocktax-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			lines = append(lines, docxParagraphText(it))
		case *docx.Table:
			for _, row := range it.TableRows {
				var cells []string
				for _, cell := range row.TableCells {
					var parts []string
					for _, para := range cell.Paragraphs {
						if t := docxParagraphText(para); t != "" {
							parts = append(parts, t)
						}
					}
					if len(parts) > 0 {
						cells = append(cells, strings.Join(parts, " "))
					}
				}
				lines = append(lines, strings.Join(cells, " "))
			}
		}
	}

	return singlePage(titleFromFilename(filename), lines), nil
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				buf.WriteString(t.Text)
			case *docx.Tab:
				buf.WriteByte(' ')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
