package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/parser"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/report"
)

// handleExtract scans one statement synchronously and returns its
// records and per-date totals.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, r, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	kind := r.FormValue("kind")
	if kind != "vesting" && kind != "sales" {
		jsonError(w, r, `kind must be "vesting" or "sales"`, http.StatusBadRequest)
		return
	}
	upload, err := s.readUpload(r, "file")
	if errors.Is(err, errNoFile) {
		jsonError(w, r, "file is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		jsonError(w, r, err.Error(), uploadStatus(err))
		return
	}
	opts, err := s.reportOptions(r)
	if err != nil {
		jsonError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := parser.ForFile(upload.Filename, parser.Options{FallbackPdftotext: s.cfg.PDFFallbackPdftotext})
	if err != nil {
		jsonError(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	tree, err := p.Parse(bytes.NewReader(upload.Data), upload.Filename)
	if err != nil {
		s.log.Warn("extract parse failed", "filename", upload.Filename, "error", err)
		jsonError(w, r, "parse: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	log := s.log.With("filename", upload.Filename)
	if kind == "vesting" {
		render.JSON(w, r, report.BuildVesting(tree, opts, log))
		return
	}
	render.JSON(w, r, report.BuildSales(tree, opts, log))
}
