package handlers

import (
	"net/http"

	"github.com/eshaffer321/ledgerclean/internal/api/dto"
	"github.com/eshaffer321/ledgerclean/internal/infrastructure/runstore"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	*Base
}

// NewHealthHandler creates a new health handler. A nil store reports zero runs.
func NewHealthHandler(store *runstore.Store) *HealthHandler {
	return &HealthHandler{Base: NewBase(store, nil)}
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := dto.NewHealthResponse()
	if h.store != nil {
		response.Runs = h.store.Len()
	}
	h.WriteJSON(w, http.StatusOK, response)
}
