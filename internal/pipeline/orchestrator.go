package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/config"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/parser"
)

// ErrQueueFull is returned by Submit when no worker can take the job.
var ErrQueueFull = errors.New("job queue is full")

// Orchestrator manages the report pipeline.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	log     *slog.Logger
	cfg     config.Config
	metrics *Metrics
	stats   *Stats

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to run workers.
func NewOrchestrator(cfg config.Config, metrics *Metrics, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		log:     log,
		cfg:     cfg,
		metrics: metrics,
		stats:   NewStats(cfg.JobTTL),
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	parseOpts := parser.Options{FallbackPdftotext: o.cfg.PDFFallbackPdftotext}
	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.log, parseOpts, o.metrics, o.stats)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a job for processing. A job whose inputs match a completed
// job still in the store reuses that job's report instead of queueing.
func (o *Orchestrator) Submit(job *Job) error {
	if prev := o.jobs.FindCompleted(job.ContentHash); prev != nil {
		job.Complete(prev.Report(), "cached")
		o.jobs.Put(job)
		o.log.Info("reused report", "job_id", job.ID, "from_job_id", prev.ID)
		return nil
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// JobCount returns the number of jobs still tracked.
func (o *Orchestrator) JobCount() int {
	return o.jobs.Len()
}

// Stats returns recent processing statistics.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}
