package audio

import (
	"audiopress/internal/core/domain"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// GetFile is the function that streams a ready artifact's content
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {

	artifactID, err := uuid.Parse(chi.URLParam(r, "artifactID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "bad_request", "artifact id must be a uuid")
		return
	}

	content, err := h.retrieval.GetArtifact(r.Context(), artifactID)
	if err != nil {
		h.logger.Error("retrieval rejected", "artifact_id", artifactID, "error", err)
		h.writeDomainError(w, err)
		return
	}
	defer content.Content.Close()

	w.Header().Set("Content-Type", content.Artifact.ContentType)
	http.ServeContent(w, r, domain.FinalBlobKey(artifactID), content.Artifact.CreatedAt, content.Content)
}
