// Package report assembles the tax-year stock report from a vesting
// statement and a sales statement.
package report

import (
	"io"
	"log/slog"

	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/doctree"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/stocks"
)

// Options control how statements are scanned and what the report shows.
type Options struct {
	TaxYear           int
	ShowIndividual    bool
	NormalizeDateKeys bool
}

// VestingSection holds what a salary certificate yielded.
type VestingSection struct {
	Source         string          `json:"source"`
	Vested         []stocks.Record `json:"vested"`
	Purchases      []stocks.Record `json:"purchases"`
	VestedByDate   []stocks.Entry  `json:"vested_by_date"`
	TotalVested    float64         `json:"total_vested"`
	TotalPurchased float64         `json:"total_purchased"`
	HeadersSkipped int             `json:"headers_skipped"`
	RowsSkipped    int             `json:"rows_skipped"`
}

// Empty reports whether the statement yielded no records at all.
func (v *VestingSection) Empty() bool {
	return len(v.Vested) == 0 && len(v.Purchases) == 0
}

// SalesSection holds what a brokerage transaction summary yielded.
type SalesSection struct {
	Source      string          `json:"source"`
	Sales       []stocks.Record `json:"sales"`
	SoldByDate  []stocks.Entry  `json:"sold_by_date"`
	TotalSold   float64         `json:"total_sold"`
	RowsSkipped int             `json:"rows_skipped"`
}

// Empty reports whether the statement yielded no sale rows.
func (s *SalesSection) Empty() bool {
	return len(s.Sales) == 0
}

// Report is the outcome of processing up to two statements. A nil section
// means the statement was not provided; a non-nil empty section means it
// was provided but nothing could be extracted.
type Report struct {
	TaxYear        int              `json:"tax_year"`
	ShowIndividual bool             `json:"show_individual"`
	Vesting        *VestingSection  `json:"vesting,omitempty"`
	Sales          *SalesSection    `json:"sales,omitempty"`
	Summary        *stocks.Position `json:"summary,omitempty"`
}

// New builds a report. Either tree may be nil when that statement was not
// provided. The summary is computed only when both were.
func New(vesting, sales *doctree.DocTree, opts Options, log *slog.Logger) *Report {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Report{TaxYear: opts.TaxYear, ShowIndividual: opts.ShowIndividual}
	if vesting != nil {
		r.Vesting = BuildVesting(vesting, opts, log)
	}
	if sales != nil {
		r.Sales = BuildSales(sales, opts, log)
	}
	if r.Vesting != nil && r.Sales != nil {
		p := stocks.NetPosition(r.Vesting.TotalVested, r.Vesting.TotalPurchased, r.Sales.TotalSold)
		r.Summary = &p
	}
	return r
}

func aggregateOptions(opts Options, log *slog.Logger) []stocks.AggregateOption {
	ao := []stocks.AggregateOption{stocks.WithLogger(log)}
	if opts.NormalizeDateKeys {
		ao = append(ao, stocks.WithNormalizedKeys())
	}
	return ao
}

// BuildVesting scans a salary certificate for vested stocks and ESPP rows.
func BuildVesting(tree *doctree.DocTree, opts Options, log *slog.Logger) *VestingSection {
	res := stocks.NewScanner(stocks.VestingProfile(opts.TaxYear), log).Scan(tree.Pages())

	v := &VestingSection{
		Source:         tree.Title,
		Vested:         res.Of(stocks.SectionVested),
		Purchases:      res.Of(stocks.SectionESPP),
		HeadersSkipped: res.HeadersSkipped,
		RowsSkipped:    res.RowsSkipped,
	}
	v.VestedByDate = stocks.Aggregate(v.Vested, stocks.FieldVestDate, stocks.FieldShares, aggregateOptions(opts, log)...)
	v.TotalVested = stocks.Total(v.Vested, stocks.FieldShares)
	v.TotalPurchased = stocks.Total(v.Purchases, stocks.FieldPurchasedShares)

	log.Info("vesting statement scanned",
		"source", v.Source,
		"lines", res.Lines,
		"vested", len(v.Vested),
		"purchases", len(v.Purchases),
		"rows_skipped", res.RowsSkipped,
	)
	return v
}

// BuildSales scans a brokerage transaction summary for sale rows.
func BuildSales(tree *doctree.DocTree, opts Options, log *slog.Logger) *SalesSection {
	res := stocks.NewScanner(stocks.SalesProfile(), log).Scan(tree.Pages())

	s := &SalesSection{
		Source:      tree.Title,
		Sales:       res.Of(stocks.SectionSales),
		RowsSkipped: res.RowsSkipped,
	}
	s.SoldByDate = stocks.Aggregate(s.Sales, stocks.FieldDateSold, stocks.FieldQuantity, aggregateOptions(opts, log)...)
	s.TotalSold = stocks.Total(s.Sales, stocks.FieldQuantity)

	log.Info("sales statement scanned",
		"source", s.Source,
		"lines", res.Lines,
		"sales", len(s.Sales),
	)
	return s
}

// Records flattens every extracted record, tagged with its section, in
// report order: vested, ESPP, sales.
func (r *Report) Records() []Row {
	var rows []Row
	if r.Vesting != nil {
		for _, rec := range r.Vesting.Vested {
			rows = append(rows, newRow(stocks.SectionVested, rec))
		}
		for _, rec := range r.Vesting.Purchases {
			rows = append(rows, newRow(stocks.SectionESPP, rec))
		}
	}
	if r.Sales != nil {
		for _, rec := range r.Sales.Sales {
			rows = append(rows, newRow(stocks.SectionSales, rec))
		}
	}
	return rows
}

// Row is one record in a section-neutral shape, used for exports.
type Row struct {
	Section  string `csv:"section"`
	Key      string `csv:"key"`
	Date     string `csv:"date"`
	Quantity string `csv:"quantity"`
}

func newRow(section stocks.Section, rec stocks.Record) Row {
	key := rec.Get(section.KeyField())
	date := ""
	if t, ok := stocks.ParseDate(key); ok {
		date = t.Format("2006-01-02")
	}
	return Row{
		Section:  section.String(),
		Key:      key,
		Date:     date,
		Quantity: rec.Get(section.QuantityField()),
	}
}
