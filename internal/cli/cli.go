// Package cli implements the stocktax subcommands.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/config"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/doctree"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/parser"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/report"
)

// Default statement locations, relative to the working directory.
const (
	DefaultVestedFile = "data/salary_certificate.pdf"
	DefaultSoldFile   = "data/Custom transaction summary - Fidelity NetBenefits_ only sales.pdf"
)

// Register adds the stocktax commands. cfg supplies flag defaults.
func Register(c *subcommands.Commander, cfg config.Config, log *slog.Logger) {
	c.Register(&reportCmd{cfg: cfg, log: log, out: os.Stdout}, "")
	c.Register(&exportCmd{cfg: cfg, log: log}, "")
	c.Register(&serveCmd{cfg: cfg, log: log}, "")
}

// NewLogger returns a text logger on w at the configured level.
func NewLogger(w io.Writer, cfg config.Config) *slog.Logger {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// statementFlags are the input flags shared by report and export.
type statementFlags struct {
	vested    string
	sold      string
	noVested  bool
	noSold    bool
	year      int
	normalize bool
}

func (s *statementFlags) set(f *flag.FlagSet, cfg config.Config) {
	f.StringVar(&s.vested, "vested", DefaultVestedFile, "Statement with the vested stocks and ESPP tables (salary certificate).")
	f.StringVar(&s.sold, "sold", DefaultSoldFile, "Brokerage transaction summary with the sold shares.")
	f.BoolVar(&s.noVested, "no-vested", false, "Skip the vested stocks and ESPP statement.")
	f.BoolVar(&s.noSold, "no-sold", false, "Skip the sold shares statement.")
	f.IntVar(&s.year, "year", cfg.TaxYear, "Tax year of the vested stocks table.")
	f.BoolVar(&s.normalize, "normalize", cfg.NormalizeDateKeys, "Group dates written in different formats under one key.")
}

func (s *statementFlags) options(showIndividual bool) report.Options {
	return report.Options{
		TaxYear:           s.year,
		ShowIndividual:    showIndividual,
		NormalizeDateKeys: s.normalize,
	}
}

// build parses the selected statements and assembles the report. A
// statement file that does not exist is reported as not provided.
func (s *statementFlags) build(cfg config.Config, log *slog.Logger, showIndividual bool) (*report.Report, error) {
	if s.noVested && s.noSold {
		return nil, errors.New("nothing to do: both -no-vested and -no-sold are set")
	}
	opts := parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}

	var vesting, sales *doctree.DocTree
	var err error
	if !s.noVested {
		if vesting, err = loadStatement(s.vested, opts, log); err != nil {
			return nil, err
		}
	}
	if !s.noSold {
		if sales, err = loadStatement(s.sold, opts, log); err != nil {
			return nil, err
		}
	}
	return report.New(vesting, sales, s.options(showIndividual), log), nil
}

func loadStatement(path string, opts parser.Options, log *slog.Logger) (*doctree.DocTree, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("statement not found, skipping", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open statement: %w", err)
	}
	defer f.Close()

	p, err := parser.ForFile(path, opts)
	if err != nil {
		return nil, err
	}
	tree, err := p.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debug("statement parsed", "path", path, "pages", len(tree.Children), "lines", tree.LineCount())
	return tree, nil
}
