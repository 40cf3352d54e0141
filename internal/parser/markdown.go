package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles statements converted to Markdown. GFM table rows
// become space-separated lines, block text keeps its source lines, and a
// thematic break ("---") starts a new page.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	tree := &doctree.DocTree{Title: titleFromFilename(filename)}
	var lines []string
	pageNum := 1
	flush := func() {
		page := strings.Join(lines, "\n")
		if strings.TrimSpace(page) != "" {
			tree.Children = append(tree.Children, &doctree.DocNode{
				Title: fmt.Sprintf("Page %d", pageNum),
				Text:  page,
				Page:  pageNum,
			})
		}
		lines = nil
		pageNum++
	}

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.ThematicBreak:
			flush()
			return ast.WalkSkipChildren, nil
		case *east.TableHeader, *east.TableRow:
			var cells []string
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t := strings.TrimSpace(inlineText(c, src)); t != "" {
					cells = append(cells, t)
				}
			}
			lines = append(lines, strings.Join(cells, " "))
			return ast.WalkSkipChildren, nil
		case *ast.Heading:
			lines = append(lines, strings.TrimSpace(inlineText(node, src)))
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.CodeBlock, *ast.FencedCodeBlock, *ast.TextBlock:
			lines = append(lines, blockLines(n, src)...)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	flush()

	return tree, nil
}

// blockLines returns the raw source lines of a block node.
func blockLines(n ast.Node, src []byte) []string {
	var out []string
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		line := strings.TrimRight(string(seg.Value(src)), "\r\n")
		out = append(out, line)
	}
	return out
}

// inlineText concatenates the text of an inline subtree.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}
