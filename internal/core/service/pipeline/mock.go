package pipeline

import (
	"audiopress/internal/core/domain"
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPipelineService is a mock implementation of PipelineService
type MockPipelineService struct {
	mock.Mock
}

// NewMockPipelineService creates a new MockPipelineService
func NewMockPipelineService() *MockPipelineService {
	return &MockPipelineService{}
}

func (m *MockPipelineService) ProcessArtifact(ctx context.Context, id uuid.UUID, splitLimitBytes int64) (*domain.ProcessResult, error) {
	args := m.Called(ctx, id, splitLimitBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessResult), args.Error(1)
}
