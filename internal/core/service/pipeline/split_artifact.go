package pipeline

import (
	"audiopress/internal/core/domain"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// segmentPattern is the printf pattern ffmpeg expands for segment files
func segmentPattern(id uuid.UUID) string {
	return id.String() + ".part_%03d.ogg"
}

func segmentPrefix(id uuid.UUID) string {
	return id.String() + ".part_"
}

// segmentSeconds computes the ffmpeg segment duration so every piece of a
// sizeBytes blob lands under limitBytes. An unknown duration degrades to
// one second segments.
func segmentSeconds(sizeBytes, limitBytes int64, durationSeconds float64) int {
	parts := (sizeBytes + limitBytes - 1) / limitBytes
	if parts < 2 {
		parts = 2
	}
	segSeconds := int(math.Ceil(durationSeconds / float64(parts)))
	if segSeconds < 1 {
		segSeconds = 1
	}
	return segSeconds
}

// splitArtifact carves the combined transcoded blob into independent
// artifacts, each registered under its own id. The primary entry and its
// blobs disappear once every part is in place.
func (s *pipelineService) splitArtifact(ctx context.Context, artifact *domain.Artifact, combined *domain.BlobInfo, splitLimitBytes int64) (*domain.ProcessResult, error) {

	combinedKey := domain.FinalBlobKey(artifact.ID)

	duration, err := s.transcoder.Probe(ctx, s.store.Path(combinedKey))
	if err != nil {
		s.logger.Warn("Failed to probe combined blob duration", "artifact_id", artifact.ID, "err", err)
		duration = 0
	}

	segSeconds := segmentSeconds(combined.SizeBytes, splitLimitBytes, duration)

	if err := s.transcoder.Segment(ctx, s.store.Path(combinedKey), s.store.Path(segmentPattern(artifact.ID)), segSeconds); err != nil {
		s.discardSegments(ctx, artifact.ID)
		s.failArtifact(ctx, artifact.ID, err)
		return nil, err
	}

	segments, err := s.listSegments(ctx, artifact.ID)
	if err != nil {
		s.discardSegments(ctx, artifact.ID)
		s.failArtifact(ctx, artifact.ID, err)
		return nil, err
	}
	if len(segments) == 0 {
		segErr := fmt.Errorf("%w: segmenting produced no output", domain.ErrTranscodeFailed)
		s.failArtifact(ctx, artifact.ID, segErr)
		return nil, segErr
	}

	parts := make([]domain.Artifact, 0, len(segments))
	for _, segment := range segments {
		part, err := s.adoptSegment(ctx, segment)
		if err != nil {
			s.rollbackParts(ctx, parts)
			s.discardSegments(ctx, artifact.ID)
			s.failArtifact(ctx, artifact.ID, err)
			return nil, err
		}
		parts = append(parts, *part)
	}

	s.discardBlob(ctx, combinedKey)
	s.discardBlob(ctx, domain.StagingBlobKey(artifact.ID))
	if err := s.registry.Remove(ctx, artifact.ID); err != nil {
		s.logger.Error("Failed to drop split primary from registry", "artifact_id", artifact.ID, "err", err)
	}

	for _, part := range parts {
		s.publishEvent(ctx, domain.ArtifactEvent{
			Type:        domain.EventTypeArtifactReady,
			ArtifactID:  part.ID,
			SizeBytes:   part.SizeBytes,
			ContentType: part.ContentType,
			OccurredAt:  time.Now(),
		})
	}

	return &domain.ProcessResult{Mode: domain.ProcessModeSplit, Parts: parts}, nil
}

// adoptSegment moves one segment file onto its own artifact id and
// walks it to ready through the registry.
func (s *pipelineService) adoptSegment(ctx context.Context, segment domain.BlobInfo) (*domain.Artifact, error) {

	partID := uuid.New()
	partKey := domain.FinalBlobKey(partID)

	if err := s.store.Rename(ctx, segment.Key, partKey); err != nil {
		return nil, fmt.Errorf("failed to move segment %s: %w", segment.Key, err)
	}

	part := domain.Artifact{
		ID:          partID,
		Path:        s.store.Path(partKey),
		SizeBytes:   segment.SizeBytes,
		Status:      domain.ArtifactStatusPending,
		ContentType: domain.ContentTypeOGG,
		CreatedAt:   time.Now(),
	}
	if err := s.registry.Register(ctx, &part); err != nil {
		s.discardBlob(ctx, partKey)
		return nil, fmt.Errorf("failed to register segment artifact: %w", err)
	}

	if err := s.registry.UpdateStatus(ctx, partID, domain.ArtifactStatusReady, domain.ArtifactUpdate{}); err != nil {
		s.discardBlob(ctx, partKey)
		if removeErr := s.registry.Remove(ctx, partID); removeErr != nil {
			s.logger.Error("Failed to roll back segment artifact", "artifact_id", partID, "err", removeErr)
		}
		return nil, fmt.Errorf("failed to mark segment artifact ready: %w", err)
	}
	part.Status = domain.ArtifactStatusReady

	return &part, nil
}

func (s *pipelineService) rollbackParts(ctx context.Context, parts []domain.Artifact) {
	for _, part := range parts {
		s.discardBlob(ctx, domain.FinalBlobKey(part.ID))
		if err := s.registry.Remove(ctx, part.ID); err != nil {
			s.logger.Error("Failed to roll back segment artifact", "artifact_id", part.ID, "err", err)
		}
	}
}

func (s *pipelineService) listSegments(ctx context.Context, id uuid.UUID) ([]domain.BlobInfo, error) {
	blobs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}

	prefix := segmentPrefix(id)
	segments := make([]domain.BlobInfo, 0, 4)
	for _, blob := range blobs {
		if strings.HasPrefix(blob.Key, prefix) {
			segments = append(segments, blob)
		}
	}
	// ffmpeg zero-pads segment numbers, so key order is play order
	sort.Slice(segments, func(i, j int) bool { return segments[i].Key < segments[j].Key })
	return segments, nil
}

func (s *pipelineService) discardSegments(ctx context.Context, id uuid.UUID) {
	segments, err := s.listSegments(ctx, id)
	if err != nil {
		s.logger.Error("Failed to list leftover segments", "artifact_id", id, "err", err)
		return
	}
	for _, segment := range segments {
		s.discardBlob(ctx, segment.Key)
	}
}
