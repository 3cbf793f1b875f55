package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/ledgerclean/internal/api/dto"
	"github.com/eshaffer321/ledgerclean/internal/infrastructure/runstore"
)

// Base provides shared functionality for all handlers.
type Base struct {
	store  *runstore.Store
	logger *slog.Logger
}

// NewBase creates a new base handler with the given run store.
func NewBase(store *runstore.Store, logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.Default()
	}
	return &Base{store: store, logger: logger}
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// loadRun resolves the {id} URL parameter. On failure it writes the error
// response and returns nil.
func (b *Base) loadRun(w http.ResponseWriter, r *http.Request) *runstore.Run {
	id := chi.URLParam(r, "id")
	if id == "" {
		b.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return nil
	}

	run, err := b.store.Get(id)
	if errors.Is(err, runstore.ErrRunNotFound) {
		b.WriteError(w, http.StatusNotFound, dto.NotFoundError("run"))
		return nil
	}
	if err != nil {
		b.logger.Error("failed to load run", "id", id, "error", err)
		b.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return nil
	}
	return run
}

// ParseIntParam parses an integer query parameter with a default value.
func ParseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseFloatParam parses a float query parameter with a default value.
func ParseFloatParam(r *http.Request, name string, defaultVal float64) float64 {
	val := strings.TrimSpace(r.URL.Query().Get(name))
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseBoolParam parses a boolean query parameter with a default value.
func ParseBoolParam(r *http.Request, name string, defaultVal bool) bool {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}
