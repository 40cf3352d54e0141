package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/doctree"
)

// CSVParser handles transaction exports in CSV form. Each record becomes
// one line with its non-empty fields joined by spaces, so the same row
// rules apply as for PDF text.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var lines []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		var fields []string
		for _, f := range record {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
		lines = append(lines, strings.Join(fields, " "))
	}

	return singlePage(titleFromFilename(filename), lines), nil
}
