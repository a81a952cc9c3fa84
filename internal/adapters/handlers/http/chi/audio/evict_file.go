package audio

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// EvictFile is the function that removes an artifact ahead of its TTL
func (h *Handler) EvictFile(w http.ResponseWriter, r *http.Request) {

	artifactID, err := uuid.Parse(chi.URLParam(r, "artifactID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "bad_request", "artifact id must be a uuid")
		return
	}

	if err := h.sweeper.EvictArtifact(r.Context(), artifactID); err != nil {
		h.logger.Error("eviction failed", "artifact_id", artifactID, "error", err)
		h.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
