package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/report"
)

// JobStatus represents the state of a report job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusScanning  JobStatus = "scanning"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Upload is one statement file attached to a job.
type Upload struct {
	Filename string
	Data     []byte
}

// Job tracks the state of a single report request.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Options report.Options `json:"-"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized. A nil upload means the statement was not provided.
	vesting *Upload
	sales   *Upload
	report  *report.Report
	errors  []string
}

// Progress tracks processing progress.
type Progress struct {
	Records        int      `json:"records"`
	RowsSkipped    int      `json:"rows_skipped"`
	HeadersSkipped int      `json:"headers_skipped"`
	Errors         []string `json:"errors"`
}

// NewJob creates a queued job for the given statements. Either upload may be nil.
func NewJob(vesting, sales *Upload, opts report.Options) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Status:      StatusQueued,
		Phase:       "queued",
		Options:     opts,
		ContentHash: jobHash(vesting, sales, opts),
		CreatedAt:   now,
		UpdatedAt:   now,
		vesting:     vesting,
		sales:       sales,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// FindCompleted returns a completed job with the given content hash, if any.
func (s *JobStore) FindCompleted(hash string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.ContentHash == hash && job.Snapshot().Status == StatusCompleted {
			return job
		}
	}
	return nil
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// Complete stores the finished report and marks the job completed.
func (j *Job) Complete(r *report.Report, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.report = r
	j.Progress.Records = len(r.Records())
	j.Progress.RowsSkipped, j.Progress.HeadersSkipped = 0, 0
	if r.Vesting != nil {
		j.Progress.RowsSkipped += r.Vesting.RowsSkipped
		j.Progress.HeadersSkipped += r.Vesting.HeadersSkipped
	}
	if r.Sales != nil {
		j.Progress.RowsSkipped += r.Sales.RowsSkipped
	}
	j.Status = StatusCompleted
	j.Phase = phase
	j.UpdatedAt = time.Now()
	// Uploads are not needed once the report exists.
	j.vesting, j.sales = nil, nil
}

// Report returns the finished report, or nil before completion.
func (j *Job) Report() *report.Report {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.report
}

// Uploads returns the statement files attached to the job.
func (j *Job) Uploads() (vesting, sales *Upload) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.vesting, j.sales
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string         `json:"job_id"`
	Status    JobStatus      `json:"status"`
	Phase     string         `json:"phase"`
	TaxYear   int            `json:"tax_year"`
	Progress  Progress       `json:"progress"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Report    *report.Report `json:"report,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	return JobSnapshot{
		ID:      j.ID,
		Status:  j.Status,
		Phase:   j.Phase,
		TaxYear: j.Options.TaxYear,
		Progress: Progress{
			Records:        j.Progress.Records,
			RowsSkipped:    j.Progress.RowsSkipped,
			HeadersSkipped: j.Progress.HeadersSkipped,
			Errors:         errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
		Report:    j.report,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// jobHash identifies a job by its inputs, so identical requests can share
// a report.
func jobHash(vesting, sales *Upload, opts report.Options) string {
	var buf []byte
	for _, u := range []*Upload{vesting, sales} {
		if u == nil {
			buf = append(buf, "-\x00"...)
			continue
		}
		buf = append(buf, u.Filename...)
		buf = append(buf, 0)
		buf = append(buf, ContentHashHex(u.Data)...)
		buf = append(buf, 0)
	}
	buf = fmt.Appendf(buf, "%d/%t/%t", opts.TaxYear, opts.ShowIndividual, opts.NormalizeDateKeys)
	return ContentHashHex(buf)
}
