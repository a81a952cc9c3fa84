package pipeline

import (
	"audiopress/internal/core/domain"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *pipelineService) ProcessArtifact(ctx context.Context, id uuid.UUID, splitLimitBytes int64) (*domain.ProcessResult, error) {

	artifact, err := s.registry.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if artifact.Status != domain.ArtifactStatusPending {
		return nil, fmt.Errorf("%w: artifact %s is %s", domain.ErrInvalidStateTransition, id, artifact.Status)
	}

	stagingKey := domain.StagingBlobKey(id)
	outputKey := domain.FinalBlobKey(id)

	start := time.Now()
	transformErr := s.transcoder.Transform(ctx, s.store.Path(stagingKey), s.store.Path(outputKey))
	elapsed := time.Since(start).Seconds()

	if transformErr != nil {
		s.metrics.ObserveTranscode(transcodeOutcome(transformErr), elapsed)
		s.failArtifact(ctx, id, transformErr)
		return nil, transformErr
	}
	s.metrics.ObserveTranscode("ok", elapsed)

	info, err := s.store.Stat(ctx, outputKey)
	if err != nil {
		statErr := fmt.Errorf("failed to stat transcoded blob: %w", err)
		s.failArtifact(ctx, id, statErr)
		return nil, statErr
	}

	if splitLimitBytes > 0 && info.SizeBytes > splitLimitBytes {
		return s.splitArtifact(ctx, artifact, info, splitLimitBytes)
	}

	return s.finishSingle(ctx, artifact, info)
}

func (s *pipelineService) finishSingle(ctx context.Context, artifact *domain.Artifact, info *domain.BlobInfo) (*domain.ProcessResult, error) {

	outputKey := domain.FinalBlobKey(artifact.ID)
	outputPath := s.store.Path(outputKey)
	contentType := domain.ContentTypeOGG

	update := domain.ArtifactUpdate{
		Path:        &outputPath,
		SizeBytes:   &info.SizeBytes,
		ContentType: &contentType,
	}
	if err := s.registry.UpdateStatus(ctx, artifact.ID, domain.ArtifactStatusReady, update); err != nil {
		s.discardBlob(ctx, domain.StagingBlobKey(artifact.ID))
		s.discardBlob(ctx, outputKey)
		return nil, fmt.Errorf("failed to mark artifact ready: %w", err)
	}

	s.discardBlob(ctx, domain.StagingBlobKey(artifact.ID))

	ready := *artifact
	ready.Path = outputPath
	ready.SizeBytes = info.SizeBytes
	ready.Status = domain.ArtifactStatusReady
	ready.ContentType = contentType

	s.publishEvent(ctx, domain.ArtifactEvent{
		Type:        domain.EventTypeArtifactReady,
		ArtifactID:  ready.ID,
		SizeBytes:   ready.SizeBytes,
		ContentType: ready.ContentType,
		OccurredAt:  time.Now(),
	})

	return &domain.ProcessResult{Mode: domain.ProcessModeSingle, Artifact: &ready}, nil
}

func transcodeOutcome(err error) string {
	if errors.Is(err, domain.ErrTranscodeTimeout) {
		return "timeout"
	}
	return "failed"
}
