package port

import (
	"audiopress/internal/core/domain"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// ArtifactRegistry is an interface to define artifact registry interactions.
// It is the single authority over artifact state: every mutation goes
// through it and the status transition table is enforced here.
type ArtifactRegistry interface {
	Register(ctx context.Context, artifact *domain.Artifact) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Artifact, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ArtifactStatus, update domain.ArtifactUpdate) error
	ListExpirable(ctx context.Context, now time.Time, ttl time.Duration) ([]domain.Artifact, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Len(ctx context.Context) int
}

// IngestService is an interface to define upload ingestion
type IngestService interface {
	IngestUpload(ctx context.Context, src io.Reader, declaredSize int64, contentType string) (uuid.UUID, error)
}

// PipelineService is an interface to define the transcode pipeline
type PipelineService interface {
	ProcessArtifact(ctx context.Context, id uuid.UUID, splitLimitBytes int64) (*domain.ProcessResult, error)
}

// RetrievalService is an interface to define artifact retrieval
type RetrievalService interface {
	GetArtifact(ctx context.Context, id uuid.UUID) (*domain.ArtifactContent, error)
}
