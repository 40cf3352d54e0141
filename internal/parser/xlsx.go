package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/doctree"
	"github.com/xuri/excelize/v2"
)

// XLSXParser handles spreadsheet exports. Each worksheet becomes a page and
// each row a line of its non-empty cells joined by spaces.
type XLSXParser struct{}

func (p *XLSXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	tree := &doctree.DocTree{Title: titleFromFilename(filename)}
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		var lines []string
		for _, row := range rows {
			var cells []string
			for _, c := range row {
				if c = strings.TrimSpace(c); c != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " "))
			}
		}
		if len(lines) == 0 {
			continue
		}
		tree.Children = append(tree.Children, &doctree.DocNode{
			Title: sheet,
			Text:  strings.Join(lines, "\n"),
			Page:  i + 1,
		})
	}
	return tree, nil
}
