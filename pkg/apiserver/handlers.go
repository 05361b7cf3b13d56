package apiserver

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/alutov/hirecs/pkg/format"
	"github.com/alutov/hirecs/pkg/hierarchy"
)

// Handlers holds the dependencies every route needs, grounded on the
// teacher's api.Handlers (graph-viz-backend/api/handlers.go), trimmed to
// the single clustering-job resource this module exposes.
type Handlers struct {
	jobs   *JobService
	logger zerolog.Logger
}

// NewHandlers builds the route handlers around an existing JobService.
func NewHandlers(jobs *JobService, logger zerolog.Logger) *Handlers {
	return &Handlers{jobs: jobs, logger: logger}
}

// optionsFromQuery reads the clustering parameters named in spec.md §6 off
// the request's query string, the HTTP analogue of cmd/hirecs's flag set.
// Symmetric is left unset here: by default the job service derives it from
// the parsed graph (unsigned and undirected), unless the caller explicitly
// passes "symmetric", in which case symmetricOverride carries that choice.
func optionsFromQuery(r *http.Request) (opts hierarchy.Options, symmetricOverride *bool, ok bool) {
	q := r.URL.Query()
	opts = hierarchy.Options{
		Fast:     q.Get("fast") == "true",
		Validate: q.Get("validate") != "false",
		Margin:   -0.999,
	}
	if s := q.Get("symmetric"); s != "" {
		v := s == "true"
		symmetricOverride = &v
	}
	if m := q.Get("margin"); m != "" {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return opts, nil, false
		}
		opts.Margin = v
	}
	return opts, symmetricOverride, true
}

// SubmitClustering handles POST /api/v1/jobs: the request body is a raw
// .hig payload, query parameters select clustering options.
func (h *Handlers) SubmitClustering(w http.ResponseWriter, r *http.Request) {
	opts, symmetricOverride, ok := optionsFromQuery(r)
	if !ok {
		writeError(w, h.logger, http.StatusBadRequest, "invalid margin parameter", nil)
		return
	}
	payload, err := io.ReadAll(io.LimitReader(r.Body, 64<<20))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "failed to read request body", err)
		return
	}
	if len(payload) == 0 {
		writeError(w, h.logger, http.StatusBadRequest, "empty request body", nil)
		return
	}

	job := h.jobs.Submit(SubmitRequest{
		Payload:           payload,
		Shuffle:           r.URL.Query().Get("shuffle") == "true",
		Options:           opts,
		SymmetricOverride: symmetricOverride,
	})
	writeSuccess(w, h.logger, "clustering job submitted", job)
}

// GetJob handles GET /api/v1/jobs/{jobId}.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["jobId"]
	job, ok := h.jobs.Get(id)
	if !ok {
		writeError(w, h.logger, http.StatusNotFound, "job not found", nil)
		return
	}
	writeSuccess(w, h.logger, "", job)
}

// GetJobResult handles GET /api/v1/jobs/{jobId}/result, serializing the
// finished hierarchy via pkg/format in the shape spec.md §6 describes.
// The "format" query parameter selects json (default), text, or csv, and
// "unwrap"/"levels" toggle the optional extras.
func (h *Handlers) GetJobResult(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["jobId"]
	job, ok := h.jobs.Get(id)
	if !ok {
		writeError(w, h.logger, http.StatusNotFound, "job not found", nil)
		return
	}
	if job.Status != JobSucceeded {
		writeError(w, h.logger, http.StatusConflict, "job has not succeeded", nil)
		return
	}

	hi, err := h.jobs.Result(id)
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "failed to load result", err)
		return
	}

	q := r.URL.Query()
	fopts := format.Options{
		Unwrap: q.Get("unwrap") == "true",
		Levels: q.Get("levels") == "true",
	}

	switch q.Get("format") {
	case "text":
		w.Header().Set("Content-Type", "text/plain")
		if err := format.WriteText(w, hi, fopts); err != nil {
			h.logger.Error().Err(err).Msg("failed to write text result")
		}
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		if err := format.WriteCSV(w, hi, fopts); err != nil {
			h.logger.Error().Err(err).Msg("failed to write csv result")
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		if err := format.WriteJSON(w, hi, fopts); err != nil {
			h.logger.Error().Err(err).Msg("failed to write json result")
		}
	}
}

// HealthCheck handles GET /api/v1/health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.logger, "ok", map[string]string{"status": "healthy"})
}
