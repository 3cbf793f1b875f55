package handlers

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/eshaffer321/ledgerclean/internal/adapters/export"
	"github.com/eshaffer321/ledgerclean/internal/api/dto"
	"github.com/eshaffer321/ledgerclean/internal/infrastructure/runstore"
)

// ExportHandler serves cleaned ledgers as file downloads.
type ExportHandler struct {
	*Base
	defaultFormat export.Format
	now           func() time.Time
}

// NewExportHandler creates a new export handler. An empty defaultFormat
// uses export.DefaultFormat.
func NewExportHandler(store *runstore.Store, defaultFormat export.Format, logger *slog.Logger) *ExportHandler {
	if defaultFormat == "" {
		defaultFormat = export.DefaultFormat
	}
	return &ExportHandler{
		Base:          NewBase(store, logger),
		defaultFormat: defaultFormat,
		now:           time.Now,
	}
}

// Export handles GET /api/runs/{id}/export?format= - returns the kept rows
// plus any restored rows as an attachment.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	run := h.loadRun(w, r)
	if run == nil {
		return
	}

	format := h.defaultFormat
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := export.ParseFormat(v)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
			return
		}
		format = f
	}

	payload, err := export.BuildPayload(run.Session.CleanedRows(), format)
	if errors.Is(err, export.ErrUnknownFormat) {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}
	if err != nil {
		h.logger.Error("export failed", "id", run.ID, "format", format, "error", err)
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	name := export.FileName(run.SourceName, h.now(), payload.Ext)
	w.Header().Set("Content-Type", payload.MIME)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(payload.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload.Data)
}
