package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ledgerclean/internal/api/dto"
	"github.com/eshaffer321/ledgerclean/internal/application/review"
	"github.com/eshaffer321/ledgerclean/internal/infrastructure/runstore"
)

// ReviewHandler handles restore/undo requests against a stored run.
type ReviewHandler struct {
	*Base
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(store *runstore.Store, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{Base: NewBase(store, logger)}
}

// Groups handles GET /api/runs/{id}/groups - returns groups matching the
// q, from, to, min, max and state filters.
func (h *ReviewHandler) Groups(w http.ResponseWriter, r *http.Request) {
	run := h.loadRun(w, r)
	if run == nil {
		return
	}

	filter, err := parseGroupFilter(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.GroupsResponse{
		FilteredGroups: run.Session.FilterGroups(filter),
		Review:         dto.NewReviewState(run.Session),
	})
}

func parseGroupFilter(r *http.Request) (review.GroupFilter, error) {
	q := r.URL.Query()
	f := review.GroupFilter{
		Query: q.Get("q"),
		From:  strings.TrimSpace(q.Get("from")),
		To:    strings.TrimSpace(q.Get("to")),
		State: review.ParseRowState(q.Get("state")),
	}

	var err error
	if f.Min, err = parseDecimalParam(q.Get("min")); err != nil {
		return f, errors.New("invalid min amount")
	}
	if f.Max, err = parseDecimalParam(q.Get("max")); err != nil {
		return f, errors.New("invalid max amount")
	}
	return f, nil
}

func parseDecimalParam(v string) (*decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ToggleRow handles POST /api/runs/{id}/rows/{index}/toggle.
func (h *ReviewHandler) ToggleRow(w http.ResponseWriter, r *http.Request) {
	run := h.loadRun(w, r)
	if run == nil {
		return
	}

	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid row index"))
		return
	}

	if err := run.Session.ToggleRow(idx); err != nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("removed row"))
		return
	}
	h.writeState(w, run)
}

// ToggleGroup handles POST /api/runs/{id}/groups/{groupID}/toggle.
func (h *ReviewHandler) ToggleGroup(w http.ResponseWriter, r *http.Request) {
	run := h.loadRun(w, r)
	if run == nil {
		return
	}

	if err := run.Session.ToggleGroup(chi.URLParam(r, "groupID")); err != nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("group"))
		return
	}
	h.writeState(w, run)
}

// RemoveAll handles POST /api/runs/{id}/remove-all.
func (h *ReviewHandler) RemoveAll(w http.ResponseWriter, r *http.Request) {
	run := h.loadRun(w, r)
	if run == nil {
		return
	}
	run.Session.RemoveAll()
	h.writeState(w, run)
}

// RestoreAll handles POST /api/runs/{id}/restore-all.
func (h *ReviewHandler) RestoreAll(w http.ResponseWriter, r *http.Request) {
	run := h.loadRun(w, r)
	if run == nil {
		return
	}
	run.Session.RestoreAll()
	h.writeState(w, run)
}

// Undo handles POST /api/runs/{id}/undo.
func (h *ReviewHandler) Undo(w http.ResponseWriter, r *http.Request) {
	run := h.loadRun(w, r)
	if run == nil {
		return
	}
	if !run.Session.Undo() {
		h.WriteError(w, http.StatusConflict, dto.ConflictError("nothing to undo"))
		return
	}
	h.writeState(w, run)
}

// Redo handles POST /api/runs/{id}/redo.
func (h *ReviewHandler) Redo(w http.ResponseWriter, r *http.Request) {
	run := h.loadRun(w, r)
	if run == nil {
		return
	}
	if !run.Session.Redo() {
		h.WriteError(w, http.StatusConflict, dto.ConflictError("nothing to redo"))
		return
	}
	h.writeState(w, run)
}

// writeState responds with the run summary after a review change.
func (h *ReviewHandler) writeState(w http.ResponseWriter, run *runstore.Run) {
	h.WriteJSON(w, http.StatusOK, dto.NewRunResponse(run))
}
