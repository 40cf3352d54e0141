package doctree

import "strings"

// DocTree is a statement converted to plain text, one node per page.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Pages in document order
}

// DocNode is one page of extracted text. Lines are separated by "\n" and
// keep the left-to-right order of the source layout.
type DocNode struct {
	Title string // Optional page label, e.g. "Page 2"
	Text  string
	Page  int // 1-based page number (0 if the format has no pages)
}

// Pages returns the page texts in order.
func (t *DocTree) Pages() []string {
	if t == nil {
		return nil
	}
	pages := make([]string, 0, len(t.Children))
	for _, n := range t.Children {
		pages = append(pages, n.Text)
	}
	return pages
}

// LineCount counts the lines across all pages.
func (t *DocTree) LineCount() int {
	n := 0
	for _, p := range t.Pages() {
		if p == "" {
			continue
		}
		n += strings.Count(p, "\n") + 1
	}
	return n
}

// Empty reports whether no text was extracted.
func (t *DocTree) Empty() bool {
	for _, p := range t.Pages() {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}
