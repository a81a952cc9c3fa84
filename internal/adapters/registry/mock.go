package registry

import (
	"audiopress/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockArtifactRegistry struct {
	mock.Mock
}

func NewMockArtifactRegistry() *MockArtifactRegistry {
	return &MockArtifactRegistry{}
}

func (m *MockArtifactRegistry) Register(ctx context.Context, artifact *domain.Artifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockArtifactRegistry) Get(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRegistry) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ArtifactStatus, update domain.ArtifactUpdate) error {
	args := m.Called(ctx, id, status, update)
	return args.Error(0)
}

func (m *MockArtifactRegistry) ListExpirable(ctx context.Context, now time.Time, ttl time.Duration) ([]domain.Artifact, error) {
	args := m.Called(ctx, now, ttl)
	return args.Get(0).([]domain.Artifact), args.Error(1)
}

func (m *MockArtifactRegistry) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArtifactRegistry) Len(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}
