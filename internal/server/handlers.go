package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/plansheet/plansheet/internal/model"
	"github.com/plansheet/plansheet/internal/store"
	"github.com/plansheet/plansheet/internal/workbook"
)

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	assembler           *workbook.Assembler
	artifacts           store.Store
	logger              *slog.Logger
	baseURL             string
	artifactTTL         time.Duration
	maxRequestBodyBytes int64
	startedAt           time.Time
	version             string
}

// HandlersDeps holds all dependencies for constructing Handlers.
type HandlersDeps struct {
	Assembler           *workbook.Assembler
	Artifacts           store.Store
	Logger              *slog.Logger
	BaseURL             string
	ArtifactTTL         time.Duration
	MaxRequestBodyBytes int64
	Version             string
}

// NewHandlers creates a new Handlers with all dependencies.
func NewHandlers(d HandlersDeps) *Handlers {
	return &Handlers{
		assembler:           d.Assembler,
		artifacts:           d.Artifacts,
		logger:              d.Logger,
		baseURL:             d.BaseURL,
		artifactTTL:         d.ArtifactTTL,
		maxRequestBodyBytes: d.MaxRequestBodyBytes,
		startedAt:           time.Now(),
		version:             d.Version,
	}
}

// HandleGenerate handles POST /generate. It assembles the workbook, stores
// the bytes under a fresh ID, and returns a download link. Malformed meal and
// ingredient fields have all been normalized away during decoding; the only
// failure points left are the body read, the encoder, and the store.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBodyBytes)

	var req model.MealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate spreadsheet", err.Error())
		return
	}

	data, err := h.assembler.Assemble(req)
	if err != nil {
		h.logger.Error("workbook assembly failed",
			"error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Failed to generate spreadsheet", err.Error())
		return
	}

	id, err := h.artifacts.Put(r.Context(), data, h.artifactTTL)
	if err != nil {
		h.logger.Error("artifact store put failed",
			"error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Failed to store spreadsheet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Success:     true,
		DownloadURL: fmt.Sprintf("%s/download/%s", h.baseURL, id),
		Filename:    model.DownloadFilename,
	})
}

// HandlePreflight handles OPTIONS /generate. The CORS headers are already
// set by middleware; the preflight response itself is empty.
func (h *Handlers) HandlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// HandleMethodNotAllowed rejects unsupported methods on /generate.
func (h *Handlers) HandleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
}

// HandleDownload handles GET /download/{id}. A missing ID is a caller error;
// an unknown, expired, or already consumed ID is routine and answers 404.
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "File ID required", "")
		return
	}

	data, err := h.artifacts.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "File not found or expired", "")
		return
	}
	if err != nil {
		h.logger.Error("artifact store get failed",
			"error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Failed to download file", "")
		return
	}

	w.Header().Set("Content-Type", model.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", model.DownloadFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleMissingID answers GET /download and GET /download/ without an ID.
func (h *Handlers) HandleMissingID(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusBadRequest, "File ID required", "")
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}
