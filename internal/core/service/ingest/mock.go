package ingest

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockIngestService is a mock implementation of IngestService
type MockIngestService struct {
	mock.Mock
}

// NewMockIngestService creates a new MockIngestService
func NewMockIngestService() *MockIngestService {
	return &MockIngestService{}
}

func (m *MockIngestService) IngestUpload(ctx context.Context, src io.Reader, declaredSize int64, contentType string) (uuid.UUID, error) {
	args := m.Called(ctx, src, declaredSize, contentType)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
