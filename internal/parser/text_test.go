package parser

import (
	"strings"
	"testing"
)

func TestTextParser_SinglePageKeepsLines(t *testing.T) {
	input := "Vested Stocks 2024\n\nAward Date Award ID Date Price\r\n01.03.2022 AB123 15.03.2024 10.00 1500.00 150\n"
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "salary_certificate.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "salary_certificate" {
		t.Errorf("expected title %q, got %q", "salary_certificate", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 page, got %d", len(tree.Children))
	}
	want := "Vested Stocks 2024\n\nAward Date Award ID Date Price\n01.03.2022 AB123 15.03.2024 10.00 1500.00 150"
	if tree.Children[0].Text != want {
		t.Errorf("expected %q, got %q", want, tree.Children[0].Text)
	}
	if tree.Children[0].Page != 1 {
		t.Errorf("expected page 1, got %d", tree.Children[0].Page)
	}
}

func TestTextParser_FormFeedSplitsPages(t *testing.T) {
	input := "page one\nrow a\fpage two\nrow b\n\f\fpage four"
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "sales.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pages := tree.Pages()
	want := []string{"page one\nrow a", "page two\nrow b\n", "page four"}
	if len(pages) != len(want) {
		t.Fatalf("expected %d pages, got %d: %q", len(want), len(pages), pages)
	}
	for i, w := range want {
		if pages[i] != w {
			t.Errorf("page[%d]: expected %q, got %q", i, w, pages[i])
		}
	}
	// Blank pages are dropped but numbering follows the source.
	if got := tree.Children[2].Page; got != 4 {
		t.Errorf("expected last page number 4, got %d", got)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", tree.Title)
	}
	if !tree.Empty() {
		t.Errorf("expected empty tree, got %d pages", len(tree.Children))
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"a.pdf", false},
		{"a.PDF", false},
		{"a.txt", false},
		{"a.md", false},
		{"a.csv", false},
		{"a.html", false},
		{"a.docx", false},
		{"a.xlsx", false},
		{"a.xls", true},
		{"noext", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename, Options{})
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q): expected error=%v, got %v", tt.filename, tt.wantErr, err)
		}
		if IsSupportedExtension(tt.filename) == tt.wantErr {
			t.Errorf("IsSupportedExtension(%q): expected %v", tt.filename, !tt.wantErr)
		}
	}
}
