package audio

import (
	"audiopress/internal/core/domain"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// multipartOverhead is the envelope allowance on top of the upload cap
// when pre-checking a multipart request's Content-Length
const multipartOverhead = 1 << 20

// UploadPart is one split artifact in an upload response
type UploadPart struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	SizeBytes int64     `json:"size_bytes"`
	SizeHuman string    `json:"size_human"`
}

// UploadResponse is the response to a processed upload
type UploadResponse struct {
	Mode              domain.ProcessMode `json:"mode"`
	ID                *uuid.UUID         `json:"id,omitempty"`
	URL               string             `json:"url,omitempty"`
	SizeBytes         int64              `json:"size_bytes,omitempty"`
	SizeHuman         string             `json:"size_human,omitempty"`
	ContentType       string             `json:"content_type,omitempty"`
	Count             int                `json:"count,omitempty"`
	Parts             []UploadPart       `json:"parts,omitempty"`
	ProcessingTimeSec float64            `json:"processing_time_sec"`
}

// Upload is the function that handles an audio upload end to end
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {

	start := time.Now()

	// reject on the declared request size before multipart parsing can
	// spool an oversized body to disk
	if r.ContentLength > h.uploadCfg.MaxBytes()+multipartOverhead {
		h.metrics.IncUpload("too_large")
		h.writeDomainError(w, domain.ErrPayloadTooLarge)
		return
	}

	src, declaredSize, contentType, closeSrc, err := uploadSource(r)
	if err != nil {
		h.metrics.IncUpload("bad_request")
		h.writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	defer closeSrc()

	artifactID, err := h.ingest.IngestUpload(r.Context(), src, declaredSize, contentType)
	if err != nil {
		h.logger.Error("upload rejected", "error", err)
		h.metrics.IncUpload(uploadOutcome(err))
		h.writeDomainError(w, err)
		return
	}

	result, err := h.pipeline.ProcessArtifact(r.Context(), artifactID, h.splitLimitBytes(r))
	if err != nil {
		h.logger.Error("processing failed", "artifact_id", artifactID, "error", err)
		h.metrics.IncUpload("failed")
		h.writeDomainError(w, err)
		return
	}

	h.metrics.IncUpload("accepted")
	h.writeUploadResponse(w, result, time.Since(start))
}

// uploadSource picks the multipart "file" field when present, the raw
// request body otherwise
func uploadSource(r *http.Request) (io.Reader, int64, string, func(), error) {

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, 0, "", nil, fmt.Errorf("missing multipart file field: %w", err)
		}
		return file, header.Size, header.Header.Get("Content-Type"), func() { file.Close() }, nil
	}

	return r.Body, r.ContentLength, contentType, func() {}, nil
}

// splitLimitBytes resolves the effective split threshold. ?max_mb= only
// lowers it for this request; the ingest cap never moves.
func (h *Handler) splitLimitBytes(r *http.Request) int64 {

	raw := r.URL.Query().Get("max_mb")
	if raw == "" {
		return h.uploadCfg.MaxBytes()
	}

	requested, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return h.uploadCfg.MaxBytes()
	}
	if requested < 1 {
		requested = 1
	}
	if requested > h.uploadCfg.MaxMB {
		requested = h.uploadCfg.MaxMB
	}
	return requested << 20
}

func uploadOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return "too_large"
	case errors.Is(err, domain.ErrEmptyPayload):
		return "empty"
	case errors.Is(err, domain.ErrUnsupportedMedia):
		return "unsupported"
	default:
		return "failed"
	}
}

func (h *Handler) writeUploadResponse(w http.ResponseWriter, result *domain.ProcessResult, elapsed time.Duration) {

	processingSec := math.Round(elapsed.Seconds()*100) / 100

	var resp UploadResponse
	if result.Mode == domain.ProcessModeSingle {
		artifact := result.Artifact
		resp = UploadResponse{
			Mode:              result.Mode,
			ID:                &artifact.ID,
			URL:               h.artifactURL(artifact.ID),
			SizeBytes:         artifact.SizeBytes,
			SizeHuman:         humanSize(artifact.SizeBytes),
			ContentType:       artifact.ContentType,
			ProcessingTimeSec: processingSec,
		}
	} else {
		parts := make([]UploadPart, 0, len(result.Parts))
		for _, part := range result.Parts {
			parts = append(parts, UploadPart{
				ID:        part.ID,
				URL:       h.artifactURL(part.ID),
				SizeBytes: part.SizeBytes,
				SizeHuman: humanSize(part.SizeBytes),
			})
		}
		resp = UploadResponse{
			Mode:              result.Mode,
			Count:             len(parts),
			Parts:             parts,
			ProcessingTimeSec: processingSec,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

func (h *Handler) artifactURL(id uuid.UUID) string {
	return strings.TrimRight(h.uploadCfg.BaseURL, "/") + "/files/" + id.String()
}

// humanSize renders a byte count for humans, one decimal per unit step
func humanSize(sizeBytes int64) string {
	size := float64(sizeBytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}
