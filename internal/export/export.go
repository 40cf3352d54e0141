// Package export writes extracted records to CSV and XLSX files.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/report"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/stocks"
	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ParseFormat accepts "csv" or "xlsx", with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case CSV, XLSX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format: %q", s)
}

// FormatForFile picks the format from an output filename's extension.
func FormatForFile(filename string) (Format, error) {
	return ParseFormat(filepath.Ext(filename))
}

// Write exports r in the given format.
func Write(w io.Writer, r *report.Report, f Format) error {
	switch f {
	case CSV:
		return WriteCSV(w, r.Records())
	case XLSX:
		return WriteXLSX(w, r)
	}
	return fmt.Errorf("unsupported export format: %q", f)
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []report.Row) error {
	if rows == nil {
		rows = []report.Row{}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

const (
	recordsSheet = "Records"
	byDateSheet  = "By date"
	summarySheet = "Summary"
)

// WriteXLSX writes a workbook with every record, the per-date totals and,
// when both statements were processed, the net position.
func WriteXLSX(w io.Writer, r *report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	header := []any{"Section", "Key", "Date", "Quantity"}
	if err := f.SetSheetRow(recordsSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	for i, row := range r.Records() {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{row.Section, row.Key, row.Date, quantityValue(row.Quantity)}
		if err := f.SetSheetRow(recordsSheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(recordsSheet, "A", "A", 10)
	_ = f.SetColWidth(recordsSheet, "B", "C", 14)
	_ = f.SetColWidth(recordsSheet, "D", "D", 12)

	if err := writeByDate(f, r); err != nil {
		return err
	}
	if r.Summary != nil {
		if err := writeSummary(f, r); err != nil {
			return err
		}
	}

	idx, _ := f.GetSheetIndex(recordsSheet)
	f.SetActiveSheet(idx)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeByDate(f *excelize.File, r *report.Report) error {
	if _, err := f.NewSheet(byDateSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	header := []any{"Section", "Date", "Quantity"}
	if err := f.SetSheetRow(byDateSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	row := 2
	write := func(section string, key string, qty float64) error {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{section, key, qty}
		row++
		return f.SetSheetRow(byDateSheet, cell, &values)
	}
	if r.Vesting != nil {
		for _, e := range r.Vesting.VestedByDate {
			if err := write("vested", e.Key, e.Quantity); err != nil {
				return fmt.Errorf("xlsx by date: %w", err)
			}
		}
	}
	if r.Sales != nil {
		for _, e := range r.Sales.SoldByDate {
			if err := write("sales", e.Key, e.Quantity); err != nil {
				return fmt.Errorf("xlsx by date: %w", err)
			}
		}
	}
	_ = f.SetColWidth(byDateSheet, "A", "C", 14)
	return nil
}

func writeSummary(f *excelize.File, r *report.Report) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	s := r.Summary
	rows := [][]any{
		{"Tax year", r.TaxYear},
		{"Total vested shares", s.Vested},
		{"Total purchased shares", s.Purchased},
		{"Total sold shares", s.Sold},
		{"Net position (" + s.Label + ")", s.Net},
	}
	for i, values := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx summary: %w", err)
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 28)
	return nil
}

// quantityValue stores parseable quantities as numbers so spreadsheet
// formulas work on them.
func quantityValue(s string) any {
	if d, err := stocks.ParseQuantity(s); err == nil {
		return d.InexactFloat64()
	}
	return s
}
