package restserver

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/chrissnell/calorimetry/internal/calorimetry"
	"github.com/chrissnell/calorimetry/internal/constants"
	"github.com/chrissnell/calorimetry/internal/ingest"
	"github.com/chrissnell/calorimetry/internal/log"
	"github.com/chrissnell/calorimetry/internal/render"
	"github.com/chrissnell/calorimetry/pkg/responseformat"
	"github.com/gorilla/mux"
)

// multipartOverhead is headroom on top of the upload limit for multipart
// boundaries and part headers
const multipartOverhead = 64 << 10

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// AnalyzeResponse is the body returned by /api/analyze
type AnalyzeResponse struct {
	RunID   string                `json:"run_id"`
	Result  *calorimetry.Result   `json:"result"`
	Summary []string              `json:"summary"`
	Chart   calorimetry.ChartSpec `json:"chart"`
}

// Analyze handles an uploaded table and returns the numeric result and chart description
func (h *Handlers) Analyze(w http.ResponseWriter, req *http.Request) {
	analysis, ok := h.analyze(w, req)
	if !ok {
		return
	}

	resp := AnalyzeResponse{
		RunID:   analysis.RunID,
		Result:  analysis.Result,
		Summary: analysis.Result.Summary(h.controller.config.Analysis.Digits()),
		Chart:   analysis.Chart,
	}
	if err := h.formatter.WriteResponse(w, req, resp); err != nil {
		log.Errorf("error encoding analysis %s: %v", analysis.RunID, err)
	}
}

// Chart handles an uploaded table and returns the rendered chart image
func (h *Handlers) Chart(w http.ResponseWriter, req *http.Request) {
	format, err := render.ParseFormat(mux.Vars(req)["ext"])
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusNotFound, "unsupported_format", err.Error())
		return
	}

	analysis, ok := h.analyze(w, req)
	if !ok {
		return
	}

	cc := h.controller.config.Chart
	opts := render.Options{
		Format: format,
		Width:  queryInt(req, "width", cc.Width),
		Height: queryInt(req, "height", cc.Height),
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, analysis.Chart, opts); err != nil {
		log.Errorf("error rendering chart for %s: %v", analysis.RunID, err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "render_failed", "the chart could not be rendered")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Run-ID", analysis.RunID)
	w.Header().Set("X-Result-Status", string(analysis.Result.Status))
	w.Write(buf.Bytes())
}

// Health reports that the server is up
func (h *Handlers) Health(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, map[string]string{
		"status":  "ok",
		"version": constants.Version,
	})
}

// analyze decodes the request body and runs the analysis, writing an error
// response and returning false on failure
func (h *Handlers) analyze(w http.ResponseWriter, req *http.Request) (*calorimetry.Analysis, bool) {
	table, err := h.readTable(w, req)
	if err == nil {
		var analysis *calorimetry.Analysis
		analysis, err = h.controller.analyzer.Analyze(table)
		if err == nil {
			return analysis, true
		}
	}

	status, kind := classify(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("analysis failed: %v", err)
	} else {
		log.Debugf("analysis rejected (%s): %v", kind, err)
	}
	h.formatter.WriteError(w, req, status, kind, err.Error())
	return nil, false
}

// readTable accepts either a multipart form with a "file" field or a raw
// body whose format is given by its Content-Type (or a filename parameter)
func (h *Handlers) readTable(w http.ResponseWriter, req *http.Request) (calorimetry.Table, error) {
	cfg := h.controller.config

	opts := ingest.Options{
		Sheet:    cfg.Analysis.Sheet,
		MaxBytes: cfg.Server.MaxUploadBytes,
	}
	if sheet := req.URL.Query().Get("sheet"); sheet != "" {
		opts.Sheet = sheet
	}

	req.Body = http.MaxBytesReader(w, req.Body, cfg.Server.MaxUploadBytes+multipartOverhead)

	contentType := req.Header.Get("Content-Type")
	if mt, _, _ := mime.ParseMediaType(contentType); mt == "multipart/form-data" {
		file, header, err := req.FormFile("file")
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return calorimetry.Table{}, err
			}
			return calorimetry.Table{}, &calorimetry.MalformedInputError{Reason: `expected an uploaded file in form field "file"`, Err: err}
		}
		defer file.Close()

		format, err := ingest.DetectFormat(header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			return calorimetry.Table{}, err
		}
		return ingest.Decode(file, format, opts)
	}

	format, err := ingest.DetectFormat(req.URL.Query().Get("filename"), contentType)
	if err != nil {
		return calorimetry.Table{}, err
	}
	return ingest.Decode(req.Body, format, opts)
}

// classify maps an analysis error to an HTTP status and a stable error kind
func classify(err error) (int, string) {
	var (
		mbe *http.MaxBytesError
		mce *calorimetry.MissingColumnsError
		epe *calorimetry.EmptyPhaseError
		ipe *calorimetry.InsufficientPointsError
		mie *calorimetry.MalformedInputError
	)

	switch {
	case errors.As(err, &mbe), errors.Is(err, ingest.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.As(err, &mce):
		return http.StatusUnprocessableEntity, "missing_columns"
	case errors.As(err, &epe):
		return http.StatusUnprocessableEntity, "empty_phase"
	case errors.As(err, &ipe):
		return http.StatusUnprocessableEntity, "insufficient_points"
	case errors.As(err, &mie):
		return http.StatusBadRequest, "malformed_input"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func queryInt(req *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(req.URL.Query().Get(name))
	if err != nil || v <= 0 || v > 4000 {
		return fallback
	}
	return v
}
