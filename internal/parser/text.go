package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/doctree"
)

// TextParser handles text already extracted from a statement, e.g. the
// output of `pdftotext -layout`. Form feeds separate pages.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pages []string
	var current []string

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		for {
			i := strings.IndexByte(line, '\f')
			if i < 0 {
				break
			}
			current = append(current, line[:i])
			pages = append(pages, strings.Join(current, "\n"))
			current = nil
			line = line[i+1:]
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	if len(current) > 0 {
		pages = append(pages, strings.Join(current, "\n"))
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
