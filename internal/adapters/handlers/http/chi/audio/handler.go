package audio

import (
	"audiopress/internal/config"
	"audiopress/internal/core/domain"
	"audiopress/internal/core/port"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler is the handler for the artifact lifecycle routes
type Handler struct {
	ingest    port.IngestService
	pipeline  port.PipelineService
	retrieval port.RetrievalService
	sweeper   port.SweepService
	metrics   port.Metrics
	uploadCfg config.UploadConfig
	logger    *slog.Logger
}

// NewAudioHandler creates Handler
func NewAudioHandler(ingest port.IngestService, pipeline port.PipelineService, retrieval port.RetrievalService, sweeper port.SweepService, metrics port.Metrics, cfg config.UploadConfig, logger *slog.Logger) *Handler {
	return &Handler{
		ingest:    ingest,
		pipeline:  pipeline,
		retrieval: retrieval,
		sweeper:   sweeper,
		metrics:   metrics,
		uploadCfg: cfg,
		logger:    logger,
	}
}

// Routes exposes handler routes
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/upload", h.Upload)
	router.Get("/files/{artifactID}", h.GetFile)
	router.Delete("/files/{artifactID}", h.EvictFile)

	return router
}

// ErrorResponse is the payload of every non-2xx response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: message}); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

// writeDomainError maps a domain error onto its status and code. The
// message is always the sentinel text so diagnostics stay server side.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPayloadTooLarge):
		h.writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", domain.ErrPayloadTooLarge.Error())
	case errors.Is(err, domain.ErrEmptyPayload):
		h.writeError(w, http.StatusUnprocessableEntity, "empty_payload", domain.ErrEmptyPayload.Error())
	case errors.Is(err, domain.ErrUnsupportedMedia):
		h.writeError(w, http.StatusUnprocessableEntity, "unsupported_media", domain.ErrUnsupportedMedia.Error())
	case errors.Is(err, domain.ErrTranscodeFailed):
		h.writeError(w, http.StatusUnprocessableEntity, "transcode_failed", domain.ErrTranscodeFailed.Error())
	case errors.Is(err, domain.ErrTranscodeTimeout):
		h.writeError(w, http.StatusGatewayTimeout, "transcode_timeout", domain.ErrTranscodeTimeout.Error())
	case errors.Is(err, domain.ErrArtifactNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", domain.ErrArtifactNotFound.Error())
	case errors.Is(err, domain.ErrArtifactNotReady):
		h.writeError(w, http.StatusConflict, "not_ready", domain.ErrArtifactNotReady.Error())
	case errors.Is(err, domain.ErrProcessingFailed):
		h.writeError(w, http.StatusUnprocessableEntity, "processing_failed", domain.ErrProcessingFailed.Error())
	default:
		h.logger.Error("unexpected error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
