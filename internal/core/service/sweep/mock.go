package sweep

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSweepService is a mock implementation of SweepService
type MockSweepService struct {
	mock.Mock
}

// NewMockSweepService creates a new MockSweepService
func NewMockSweepService() *MockSweepService {
	return &MockSweepService{}
}

func (m *MockSweepService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockSweepService) EvictArtifact(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
