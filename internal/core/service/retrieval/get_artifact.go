package retrieval

import (
	"audiopress/internal/core/domain"
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/google/uuid"
)

func (s *retrievalService) GetArtifact(ctx context.Context, id uuid.UUID) (*domain.ArtifactContent, error) {

	artifact, err := s.registry.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch artifact.Status {
	case domain.ArtifactStatusReady:
	case domain.ArtifactStatusPending:
		return nil, domain.ErrArtifactNotReady
	case domain.ArtifactStatusFailed:
		if artifact.Diagnostic != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrProcessingFailed, artifact.Diagnostic)
		}
		return nil, domain.ErrProcessingFailed
	default:
		// expired entries are as good as gone
		return nil, domain.ErrArtifactNotFound
	}

	content, err := s.store.Open(ctx, domain.FinalBlobKey(id))
	if err != nil {
		// the sweeper may beat us to the blob
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to open artifact content: %w", err)
	}

	return &domain.ArtifactContent{Artifact: *artifact, Content: content}, nil
}
