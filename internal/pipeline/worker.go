package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/doctree"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/parser"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/report"
	"golang.org/x/sync/errgroup"
)

// Worker processes a single report job.
type Worker struct {
	log     *slog.Logger
	parse   parser.Options
	metrics *Metrics
	stats   *Stats
}

func NewWorker(log *slog.Logger, parseOpts parser.Options, metrics *Metrics, stats *Stats) *Worker {
	return &Worker{
		log:     log,
		parse:   parseOpts,
		metrics: metrics,
		stats:   stats,
	}
}

// Process parses the job's statements and builds its report.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()
	log := w.log.With("job_id", job.ID)
	vestingUpload, salesUpload := job.Uploads()

	// Phase 1: Parse both statements concurrently.
	job.SetStatus(StatusParsing, "parsing")
	var vesting, sales *doctree.DocTree
	g, gctx := errgroup.WithContext(ctx)
	if vestingUpload != nil {
		g.Go(func() error {
			tree, err := w.parseUpload(gctx, vestingUpload)
			vesting = tree
			return err
		})
	}
	if salesUpload != nil {
		g.Go(func() error {
			tree, err := w.parseUpload(gctx, salesUpload)
			sales = tree
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		w.finish(job, start, 0)
		return
	}

	// Phase 2: Scan and aggregate.
	job.SetStatus(StatusScanning, "scanning")
	r := report.New(vesting, sales, job.Options, log)
	if vesting.Empty() && sales.Empty() {
		job.AddError("no extractable content")
	}
	job.Complete(r, "done")

	records := len(r.Records())
	log.Info("report complete", "records", records, "summary", r.Summary != nil)
	if w.metrics != nil {
		w.metrics.ObserveReport(r)
	}
	w.finish(job, start, records)
}

func (w *Worker) parseUpload(ctx context.Context, u *Upload) (*doctree.DocTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := parser.ForFile(u.Filename, w.parse)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.Filename, err)
	}
	tree, err := p.Parse(bytes.NewReader(u.Data), u.Filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", u.Filename, err)
	}
	return tree, nil
}

func (w *Worker) finish(job *Job, start time.Time, records int) {
	elapsed := time.Since(start)
	if w.metrics != nil {
		w.metrics.ObserveJob(job.Snapshot().Status, elapsed.Seconds())
	}
	if w.stats != nil {
		w.stats.Record(elapsed, records)
	}
}
