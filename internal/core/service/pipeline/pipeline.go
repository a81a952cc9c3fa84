package pipeline

import (
	"audiopress/internal/core/domain"
	"audiopress/internal/core/port"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type pipelineService struct {
	registry   port.ArtifactRegistry
	store      port.BlobStore
	transcoder port.Transcoder
	events     port.EventPublisher
	metrics    port.Metrics
	logger     *slog.Logger
}

// NewPipelineService creates a new pipeline service
func NewPipelineService(registry port.ArtifactRegistry, store port.BlobStore, transcoder port.Transcoder, events port.EventPublisher, metrics port.Metrics, logger *slog.Logger) port.PipelineService {
	return &pipelineService{
		registry:   registry,
		store:      store,
		transcoder: transcoder,
		events:     events,
		metrics:    metrics,
		logger:     logger,
	}
}

// failArtifact marks the artifact failed with the cause as diagnostic and
// drops its blobs. The registry entry stays behind for the sweeper.
func (s *pipelineService) failArtifact(ctx context.Context, id uuid.UUID, cause error) {
	diagnostic := cause.Error()
	update := domain.ArtifactUpdate{Diagnostic: &diagnostic}
	if err := s.registry.UpdateStatus(ctx, id, domain.ArtifactStatusFailed, update); err != nil {
		s.logger.Error("Failed to mark artifact failed", "artifact_id", id, "err", err)
	}

	s.discardBlob(ctx, domain.StagingBlobKey(id))
	s.discardBlob(ctx, domain.FinalBlobKey(id))

	s.publishEvent(ctx, domain.ArtifactEvent{
		Type:       domain.EventTypeArtifactFailed,
		ArtifactID: id,
		OccurredAt: time.Now(),
	})
}

func (s *pipelineService) discardBlob(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error("Failed to remove blob", "key", key, "err", err)
	}
}

func (s *pipelineService) publishEvent(ctx context.Context, event domain.ArtifactEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish artifact event", "type", event.Type, "artifact_id", event.ArtifactID, "err", err)
	}
}
