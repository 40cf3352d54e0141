package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/charmbracelet/glamour"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/stocks"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = texttemplate.FuncMap{
	"field": func(r stocks.Record, name string) string { return r.Get(name) },
	"qty":   func(prec int, v float64) string { return fmt.Sprintf("%.*f", prec, v) },
	"date":  stocks.FormatDisplayDate,
}

var mdTemplate = texttemplate.Must(texttemplate.New("report.md").Funcs(funcs).ParseFS(templates, "templates/*.md"))

// Markdown renders the report as Markdown.
func Markdown(r *Report) (string, error) {
	var b strings.Builder
	if err := mdTemplate.ExecuteTemplate(&b, "report.md", r); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return b.String(), nil
}

// Terminal renders the report for a terminal of the given width.
func Terminal(r *Report, width int) (string, error) {
	md, err := Markdown(r)
	if err != nil {
		return "", err
	}
	if width <= 0 {
		width = 100
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create terminal renderer: %w", err)
	}
	out, err := tr.Render(md)
	if err != nil {
		return "", fmt.Errorf("render terminal: %w", err)
	}
	return out, nil
}

var htmlPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Stock report {{.Year}}</title>
<style>
body { font-family: sans-serif; max-width: 56rem; margin: 2rem auto; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.75rem; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML renders the report as a standalone HTML page.
func HTML(r *Report) ([]byte, error) {
	md, err := Markdown(r)
	if err != nil {
		return nil, err
	}
	var body bytes.Buffer
	gm := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := gm.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var page bytes.Buffer
	err = htmlPage.Execute(&page, struct {
		Year int
		Body template.HTML
	}{Year: r.TaxYear, Body: template.HTML(body.String())})
	if err != nil {
		return nil, fmt.Errorf("render html page: %w", err)
	}
	return page.Bytes(), nil
}

// JSON renders the report as indented JSON.
func JSON(r *Report) ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}
	return out, nil
}
