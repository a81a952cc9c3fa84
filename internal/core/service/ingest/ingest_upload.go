package ingest

import (
	"audiopress/internal/core/domain"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

func (s *ingestService) IngestUpload(ctx context.Context, src io.Reader, declaredSize int64, contentType string) (uuid.UUID, error) {

	if declaredSize > s.uploadCfg.MaxBytes() {
		return uuid.Nil, domain.ErrPayloadTooLarge
	}

	artifactID := uuid.New()
	stagingKey := domain.StagingBlobKey(artifactID)

	written, err := s.store.Save(ctx, stagingKey, src, s.uploadCfg.MaxBytes())
	if err != nil {
		return uuid.Nil, err
	}

	if written == 0 {
		s.discardStaging(ctx, stagingKey)
		return uuid.Nil, domain.ErrEmptyPayload
	}

	mimeType, err := s.detectMedia(ctx, stagingKey, contentType)
	if err != nil {
		s.discardStaging(ctx, stagingKey)
		return uuid.Nil, err
	}

	artifact := &domain.Artifact{
		ID:          artifactID,
		Path:        s.store.Path(stagingKey),
		SizeBytes:   written,
		Status:      domain.ArtifactStatusPending,
		ContentType: mimeType,
		CreatedAt:   time.Now(),
	}

	if err := s.registry.Register(ctx, artifact); err != nil {
		s.discardStaging(ctx, stagingKey)
		return uuid.Nil, fmt.Errorf("failed to register artifact: %w", err)
	}

	return artifactID, nil
}

func (s *ingestService) discardStaging(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		s.logger.Error("Failed to remove rejected staging blob", "key", key, "err", err)
	}
}
