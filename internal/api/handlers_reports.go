package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/export"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/parser"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/pipeline"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/report"
)

var errNoFile = errors.New("no file")

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	// Limit total request size: two statements plus form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, 2*s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, r, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	vested, err := s.readUpload(r, "vested")
	if err != nil && !errors.Is(err, errNoFile) {
		jsonError(w, r, err.Error(), uploadStatus(err))
		return
	}
	sold, err := s.readUpload(r, "sold")
	if err != nil && !errors.Is(err, errNoFile) {
		jsonError(w, r, err.Error(), uploadStatus(err))
		return
	}
	if vested == nil && sold == nil {
		jsonError(w, r, "at least one of vested or sold is required", http.StatusBadRequest)
		return
	}

	opts, err := s.reportOptions(r)
	if err != nil {
		jsonError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(vested, sold, opts)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, r, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Info("report submitted", "job_id", job.ID, "vested", vested != nil, "sold", sold != nil)

	snap := job.Snapshot()
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/reports/%s", snap.ID),
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, r, "job not found", http.StatusNotFound)
		return
	}
	render.JSON(w, r, job.Snapshot())
}

func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.completedReport(w, r)
	if !ok {
		return
	}
	page, err := report.HTML(rep)
	if err != nil {
		s.log.Error("render html failed", "error", err)
		jsonError(w, r, "failed to render report", http.StatusInternalServerError)
		return
	}
	render.HTML(w, r, string(page))
}

func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		jsonError(w, r, err.Error(), http.StatusNotFound)
		return
	}
	rep, ok := s.completedReport(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, rep, format); err != nil {
		s.log.Error("export failed", "format", format, "error", err)
		jsonError(w, r, "failed to export records", http.StatusInternalServerError)
		return
	}
	filename := fmt.Sprintf("stocks-%d.%s", rep.TaxYear, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(buf.Bytes())
}

// completedReport resolves the job in the URL and writes an error response
// unless its report is ready.
func (s *Server) completedReport(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, r, "job not found", http.StatusNotFound)
		return nil, false
	}
	rep := job.Report()
	if rep == nil {
		snap := job.Snapshot()
		jsonError(w, r, fmt.Sprintf("report not ready (status %s)", snap.Status), http.StatusConflict)
		return nil, false
	}
	return rep, true
}

func (s *Server) reportOptions(r *http.Request) (report.Options, error) {
	opts := report.Options{
		TaxYear:           s.cfg.TaxYear,
		NormalizeDateKeys: s.cfg.NormalizeDateKeys,
	}
	if v := r.FormValue("tax_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1900 || year > 9999 {
			return opts, fmt.Errorf("invalid tax_year: %q", v)
		}
		opts.TaxYear = year
	}
	if v := r.FormValue("show_individual"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid show_individual: %q", v)
		}
		opts.ShowIndividual = b
	}
	return opts, nil
}

type uploadError struct {
	msg  string
	code int
}

func (e *uploadError) Error() string { return e.msg }

func uploadStatus(err error) int {
	var ue *uploadError
	if errors.As(err, &ue) {
		return ue.code
	}
	return http.StatusBadRequest
}

// readUpload reads a statement from the multipart field. It returns
// errNoFile when the field is absent.
func (s *Server) readUpload(r *http.Request, field string) (*pipeline.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, errNoFile
	}
	if err != nil {
		return nil, &uploadError{msg: field + ": " + err.Error(), code: http.StatusBadRequest}
	}
	defer file.Close()
	return s.readFile(field, file, header)
}

func (s *Server) readFile(field string, file multipart.File, header *multipart.FileHeader) (*pipeline.Upload, error) {
	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return nil, &uploadError{
			msg:  fmt.Sprintf("%s: unsupported file type: %s", field, filepath.Ext(filename)),
			code: http.StatusBadRequest,
		}
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, &uploadError{msg: field + ": failed to read file", code: http.StatusInternalServerError}
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, &uploadError{
			msg:  fmt.Sprintf("%s: file exceeds max size (%d bytes)", field, s.cfg.MaxUploadBytes),
			code: http.StatusRequestEntityTooLarge,
		}
	}
	return &pipeline.Upload{Filename: filename, Data: data}, nil
}

func jsonError(w http.ResponseWriter, r *http.Request, msg string, code int) {
	render.Status(r, code)
	render.JSON(w, r, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
