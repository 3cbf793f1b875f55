package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eshaffer321/ledgerclean/internal/api/dto"
	"github.com/eshaffer321/ledgerclean/internal/api/handlers"
	"github.com/eshaffer321/ledgerclean/internal/application/clean"
	"github.com/eshaffer321/ledgerclean/internal/infrastructure/runstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	t.Run("returns 200 OK with health status", func(t *testing.T) {
		handler := handlers.NewHealthHandler(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response dto.HealthResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, "ok", response.Status)
		assert.NotEmpty(t, response.Timestamp)
		assert.Zero(t, response.Runs)
	})

	t.Run("reports stored runs", func(t *testing.T) {
		store := runstore.NewStore()
		require.NoError(t, store.Save(runstore.NewRun("a.csv", "utf-8", "csv", &clean.Result{})))
		handler := handlers.NewHealthHandler(store)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		var response dto.HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 1, response.Runs)
	})
}
