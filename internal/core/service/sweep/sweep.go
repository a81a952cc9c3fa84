package sweep

import (
	"audiopress/internal/config"
	"audiopress/internal/core/domain"
	"audiopress/internal/core/port"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"
)

type sweepService struct {
	registry  port.ArtifactRegistry
	store     port.BlobStore
	events    port.EventPublisher
	metrics   port.Metrics
	uploadCfg config.UploadConfig
	logger    *slog.Logger
}

// NewSweepService creates a new sweep service
func NewSweepService(registry port.ArtifactRegistry, store port.BlobStore, events port.EventPublisher, metrics port.Metrics, cfg config.UploadConfig, logger *slog.Logger) port.SweepService {
	return &sweepService{
		registry:  registry,
		store:     store,
		events:    events,
		metrics:   metrics,
		uploadCfg: cfg,
		logger:    logger,
	}
}

// removeArtifact takes one artifact out of service: blobs first, then the
// registry entry. A blob delete failure other than a missing file aborts
// before the registry is touched, so the entry comes back next pass.
func (s *sweepService) removeArtifact(ctx context.Context, artifact domain.Artifact, eventType domain.EventType) error {

	if err := s.removeBlob(ctx, domain.StagingBlobKey(artifact.ID)); err != nil {
		return err
	}
	if err := s.removeBlob(ctx, domain.FinalBlobKey(artifact.ID)); err != nil {
		return err
	}

	if artifact.Status != domain.ArtifactStatusExpired {
		if err := s.registry.UpdateStatus(ctx, artifact.ID, domain.ArtifactStatusExpired, domain.ArtifactUpdate{}); err != nil {
			s.logger.Error("Failed to mark artifact expired", "artifact_id", artifact.ID, "err", err)
		}
	}

	if err := s.registry.Remove(ctx, artifact.ID); err != nil {
		return fmt.Errorf("failed to drop artifact from registry: %w", err)
	}

	s.publishEvent(ctx, domain.ArtifactEvent{
		Type:        eventType,
		ArtifactID:  artifact.ID,
		SizeBytes:   artifact.SizeBytes,
		ContentType: artifact.ContentType,
		OccurredAt:  time.Now(),
	})

	return nil
}

func (s *sweepService) removeBlob(ctx context.Context, key string) error {
	err := s.store.Remove(ctx, key)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove blob %s: %w", key, err)
	}
	return nil
}

func (s *sweepService) publishEvent(ctx context.Context, event domain.ArtifactEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish artifact event", "type", event.Type, "artifact_id", event.ArtifactID, "err", err)
	}
}
