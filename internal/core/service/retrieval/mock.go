package retrieval

import (
	"audiopress/internal/core/domain"
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRetrievalService is a mock implementation of RetrievalService
type MockRetrievalService struct {
	mock.Mock
}

// NewMockRetrievalService creates a new MockRetrievalService
func NewMockRetrievalService() *MockRetrievalService {
	return &MockRetrievalService{}
}

func (m *MockRetrievalService) GetArtifact(ctx context.Context, id uuid.UUID) (*domain.ArtifactContent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArtifactContent), args.Error(1)
}
