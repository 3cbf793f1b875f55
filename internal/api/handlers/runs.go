package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/eshaffer321/ledgerclean/internal/adapters/ledgerfile"
	"github.com/eshaffer321/ledgerclean/internal/api/dto"
	"github.com/eshaffer321/ledgerclean/internal/application/clean"
	"github.com/eshaffer321/ledgerclean/internal/domain/dedupe"
	"github.com/eshaffer321/ledgerclean/internal/infrastructure/runstore"
)

// MaxUploadBytes bounds the size of an uploaded ledger file.
const MaxUploadBytes = 32 << 20

// RunsHandler handles cleaning run HTTP requests.
type RunsHandler struct {
	*Base
	cleaner  *clean.Service
	defaults clean.Options
}

// NewRunsHandler creates a new runs handler. defaults supplies options not
// overridden by query parameters.
func NewRunsHandler(store *runstore.Store, cleaner *clean.Service, defaults clean.Options, logger *slog.Logger) *RunsHandler {
	if cleaner == nil {
		cleaner = clean.NewService(logger)
	}
	return &RunsHandler{
		Base:     NewBase(store, logger),
		cleaner:  cleaner,
		defaults: defaults,
	}
}

// Create handles POST /api/runs - cleans an uploaded ledger file.
func (h *RunsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("failed to read upload"))
		return
	}

	table, err := ledgerfile.Read(header.Filename, data)
	if err == nil {
		var result *clean.Result
		result, err = h.cleaner.Run(r.Context(), table, h.optionsFrom(r))
		if err == nil {
			h.saveRun(w, header.Filename, table, result)
			return
		}
	}

	switch {
	case errors.Is(err, ledgerfile.ErrMissingColumns):
		h.WriteError(w, http.StatusUnprocessableEntity, dto.ValidationError(err.Error()))
	case errors.Is(err, ledgerfile.ErrEmptyInput):
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
	default:
		h.logger.Warn("clean failed", "file", header.Filename, "error", err)
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("could not read ledger file: "+err.Error()))
	}
}

func (h *RunsHandler) saveRun(w http.ResponseWriter, name string, table *ledgerfile.Table, result *clean.Result) {
	run := runstore.NewRun(name, table.Encoding, string(table.Format), result)
	if err := h.store.Save(run); err != nil {
		h.logger.Error("failed to save run", "error", err)
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.logger.Info("run created",
		"id", run.ID,
		"file", run.SourceName,
		"rows", result.Info.InputRows,
		"groups", result.Info.DuplicateCandidateGroups)

	h.WriteJSON(w, http.StatusCreated, dto.NewRunResponse(run))
}

// optionsFrom overlays query parameters on the handler defaults.
func (h *RunsHandler) optionsFrom(r *http.Request) clean.Options {
	opts := h.defaults
	opts.DropTransfer = ParseBoolParam(r, "drop_transfer", opts.DropTransfer)
	opts.DropZeroAmount = ParseBoolParam(r, "drop_zero", opts.DropZeroAmount)
	opts.Dedupe = dedupe.ConfigFromFloats(
		ParseFloatParam(r, "sim", opts.Dedupe.SimilarityThreshold),
		ParseFloatParam(r, "max_day_diff", float64(opts.Dedupe.MaxDayDiff)),
		ParseFloatParam(r, "bundle_window", float64(opts.Dedupe.BundleDayWindow)),
	)
	return opts
}

// List handles GET /api/runs - returns runs newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 20)

	runs := h.store.List(limit)

	response := dto.RunListResponse{
		Runs:  make([]dto.RunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, dto.NewRunResponse(run))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id} - returns a run with its duplicate groups.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	run := h.loadRun(w, r)
	if run == nil {
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.RunDetailResponse{
		RunResponse: dto.NewRunResponse(run),
		Groups:      run.Session.Groups(),
	})
}
