package recovery

import (
	"audiopress/internal/core/domain"
	"context"
	"fmt"
)

// RestoreArtifacts rebuilds the registry from the storage directory.
// Transcoded blobs come back as ready artifacts with the file mtime as
// their age; stagings and foreign files left by a crash are dropped.
func (s *recoveryService) RestoreArtifacts(ctx context.Context) (int, error) {

	blobs, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to scan storage directory: %w", err)
	}

	restored := 0
	for _, blob := range blobs {

		artifactID, ok := domain.ParseFinalBlobKey(blob.Key)
		if !ok {
			if removeErr := s.store.Remove(ctx, blob.Key); removeErr != nil {
				s.logger.Error("Failed to remove leftover blob", "key", blob.Key, "err", removeErr)
				continue
			}
			s.logger.Info("removed leftover blob", "key", blob.Key)
			continue
		}

		artifact := &domain.Artifact{
			ID:          artifactID,
			Path:        s.store.Path(blob.Key),
			SizeBytes:   blob.SizeBytes,
			Status:      domain.ArtifactStatusReady,
			ContentType: domain.ContentTypeOGG,
			CreatedAt:   blob.ModTime,
		}
		if err := s.registry.Register(ctx, artifact); err != nil {
			s.logger.Error("Failed to restore artifact", "artifact_id", artifactID, "err", err)
			continue
		}
		restored++
	}

	s.logger.Info("artifact registry rebuilt", "restored", restored)
	return restored, nil
}
