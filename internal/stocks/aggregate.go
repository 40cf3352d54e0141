package stocks

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is the summed quantity of all records sharing a key.
type Entry struct {
	Key      string    `json:"key"`
	Date     time.Time `json:"date"`
	Quantity float64   `json:"quantity"`
}

// dateLayouts are the date formats seen in statements, most common first.
var dateLayouts = []string{
	"02.01.2006",
	"Jan-02-2006",
	"2006-01-02",
	"01/02/2006",
}

// ParseDate parses a statement date in any known layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDisplayDate renders a parseable date as DD.MM.YYYY and returns any
// other string unchanged.
func FormatDisplayDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format("02.01.2006")
	}
	return s
}

// ParseQuantity parses a share quantity after removing comma and apostrophe
// thousands separators.
func ParseQuantity(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer(",", "", "'", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	return d, nil
}

type aggregateOptions struct {
	normalize bool
	log       *slog.Logger
}

// AggregateOption configures Aggregate.
type AggregateOption func(*aggregateOptions)

// WithNormalizedKeys groups parseable date keys by calendar date, so
// "15.03.2024" and "Mar-15-2024" land in one entry keyed "2024-03-15".
func WithNormalizedKeys() AggregateOption {
	return func(o *aggregateOptions) { o.normalize = true }
}

// WithLogger reports dropped quantities to log.
func WithLogger(log *slog.Logger) AggregateOption {
	return func(o *aggregateOptions) { o.log = log }
}

// Aggregate sums the quantity field of records grouped by the key field.
// Records whose quantity does not parse are dropped. Entries are ordered by
// date; keys that are not dates sort first, ties keep encounter order.
func Aggregate(records []Record, keyField, qtyField string, opts ...AggregateOption) []Entry {
	o := aggregateOptions{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, rec := range records {
		qty, err := ParseQuantity(rec[qtyField])
		if err != nil {
			o.log.Warn("invalid quantity", "field", qtyField, "value", rec[qtyField], "error", err)
			continue
		}
		key := rec[keyField]
		if o.normalize {
			if t, ok := ParseDate(key); ok {
				key = t.Format("2006-01-02")
			}
		}
		sum, seen := sums[key]
		if !seen {
			order = append(order, key)
		}
		sums[key] = sum.Add(qty)
	}

	type keyed struct {
		entry Entry
		dated bool
	}
	ks := make([]keyed, 0, len(order))
	for _, key := range order {
		date, ok := ParseDate(key)
		ks = append(ks, keyed{
			entry: Entry{Key: key, Date: date, Quantity: sums[key].InexactFloat64()},
			dated: ok,
		})
	}
	// Undated keys first, then by date; ties keep encounter order.
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].dated != ks[j].dated {
			return !ks[i].dated
		}
		return ks[i].entry.Date.Before(ks[j].entry.Date)
	})

	entries := make([]Entry, len(ks))
	for i, k := range ks {
		entries[i] = k.entry
	}
	return entries
}

// Total is the flat sum of every parseable quantity in records.
func Total(records []Record, qtyField string) float64 {
	sum := decimal.Zero
	for _, rec := range records {
		qty, err := ParseQuantity(rec[qtyField])
		if err != nil {
			continue
		}
		sum = sum.Add(qty)
	}
	return sum.InexactFloat64()
}
