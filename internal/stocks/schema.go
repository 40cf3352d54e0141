package stocks

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Row rejection reasons. They are reported to the scanner's logger and
// never returned from a scan.
var (
	ErrTooFewTokens = errors.New("too few tokens")
	ErrInvalidField = errors.New("invalid field")
	ErrNoMatch      = errors.New("row pattern not matched")
)

type schemaKind int

const (
	// kindPositional picks fields by token index after whitespace splitting.
	kindPositional schemaKind = iota
	// kindPattern matches the whole row against an anchored regexp.
	kindPattern
)

// FieldSpec maps a record field to a token index (positional schemas) or
// to a regexp submatch group (pattern schemas).
type FieldSpec struct {
	Name  string
	Index int
}

// Schema describes how one section of a statement is recognized and how
// its data rows become records.
type Schema struct {
	Section Section

	// Marker substrings that must all appear on a line starting the section.
	Marker []string
	// Terminators end the section when any of them appears on a line.
	Terminators []string
	// Headers are keyword sets; a line containing every keyword of one set
	// is a column header.
	Headers [][]string
	// NoisePrefixes mark continuation lines (e.g. a currency code).
	NoisePrefixes []string
	// SkipTotals drops lines that are a bare number, such as a column total.
	SkipTotals bool

	MinTokens int
	Fields    []FieldSpec

	kind    schemaKind
	pattern *regexp.Regexp
	valid   func(Record) bool
}

// VestedSchema is the "Vested Stocks <year>" table of a salary certificate:
//
//	Award_Date Award_ID Vest_Date Award_Price Market_Value Shares ...
func VestedSchema(year int) *Schema {
	return &Schema{
		Section:     SectionVested,
		Marker:      []string{"Vested Stocks", strconv.Itoa(year)},
		Terminators: []string{"ESPP"},
		Headers: [][]string{
			{"Award", "Date"},
			{"Date Date Price"},
		},
		SkipTotals: true,
		MinTokens:  6,
		Fields: []FieldSpec{
			{Name: FieldVestDate, Index: 2},
			{Name: FieldShares, Index: 5},
		},
		kind: kindPositional,
		valid: func(r Record) bool {
			return isDottedDate(r[FieldVestDate])
		},
	}
}

// ESPPSchema is the employee stock purchase plan table:
//
//	Off_Period Purchased_Shares FMV_Price Purchase_Price ...
func ESPPSchema() *Schema {
	return &Schema{
		Section:     SectionESPP,
		Marker:      []string{"ESPP (Employee Stock Purchase Plan)"},
		Terminators: []string{"Total amount", "Page"},
		Headers: [][]string{
			{"Off Period", "Purchased"},
			{"Shares Price"},
		},
		NoisePrefixes: []string{"CHF"},
		MinTokens:     2,
		Fields: []FieldSpec{
			{Name: FieldOffPeriod, Index: 0},
			{Name: FieldPurchasedShares, Index: 1},
		},
		kind: kindPositional,
		valid: func(r Record) bool {
			period, shares := r[FieldOffPeriod], r[FieldPurchasedShares]
			if isDigits(period) {
				return true
			}
			return isAlnum(period) && isDigits(strings.ReplaceAll(shares, ".", ""))
		},
	}
}

// salePattern matches brokerage sale rows such as
//
//	Jan-16-2024 Jun-01-2020 3.0000 $549.75 $1,175.99 + $626.24 USD DO
var salePattern = regexp.MustCompile(`(\w{3}-\d{2}-\d{4})\s+(\w{3}-\d{2}-\d{4})\s+([\d.]+)\s+\$[\d,.]+`)

// SalesSchema is the custom transaction summary of a brokerage account.
// Sale rows have a distinctive shape, so the schema matches the whole line
// rather than token positions and needs no marker.
func SalesSchema() *Schema {
	return &Schema{
		Section: SectionSales,
		Fields: []FieldSpec{
			{Name: FieldDateSold, Index: 1},
			{Name: FieldQuantity, Index: 3},
		},
		kind:    kindPattern,
		pattern: salePattern,
	}
}

// Extract turns a data row into a record. The returned error explains why
// a row was rejected; callers skip the row and carry on.
func (s *Schema) Extract(line string) (Record, error) {
	if s.kind == kindPattern {
		m := s.pattern.FindStringSubmatch(line)
		if m == nil {
			return nil, ErrNoMatch
		}
		rec := make(Record, len(s.Fields))
		for _, f := range s.Fields {
			rec[f.Name] = m[f.Index]
		}
		return rec, nil
	}

	tokens := strings.Fields(line)
	if len(tokens) < s.MinTokens {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrTooFewTokens, len(tokens), s.MinTokens)
	}
	rec := make(Record, len(s.Fields))
	for _, f := range s.Fields {
		rec[f.Name] = tokens[f.Index]
	}
	if s.valid != nil && !s.valid(rec) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, map[string]string(rec))
	}
	return rec, nil
}

func (s *Schema) isMarker(line string) bool {
	if len(s.Marker) == 0 {
		return false
	}
	for _, m := range s.Marker {
		if !strings.Contains(line, m) {
			return false
		}
	}
	return true
}

func (s *Schema) isTerminator(line string) bool {
	for _, t := range s.Terminators {
		if strings.Contains(line, t) {
			return true
		}
	}
	return false
}

func (s *Schema) isHeader(line string) bool {
next:
	for _, set := range s.Headers {
		for _, kw := range set {
			if !strings.Contains(line, kw) {
				continue next
			}
		}
		return true
	}
	return false
}

func (s *Schema) hasNoisePrefix(trimmed string) bool {
	for _, p := range s.NoisePrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// isDottedDate reports whether v looks like DD.MM.YYYY.
func isDottedDate(v string) bool {
	return strings.Contains(v, ".") && len(strings.Split(v, ".")) == 3
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
