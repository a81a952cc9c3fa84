package transcoder

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTranscoder struct {
	mock.Mock
}

func NewMockTranscoder() *MockTranscoder {
	return &MockTranscoder{}
}

func (m *MockTranscoder) Transform(ctx context.Context, inputPath, outputPath string) error {
	args := m.Called(ctx, inputPath, outputPath)
	return args.Error(0)
}

func (m *MockTranscoder) Probe(ctx context.Context, path string) (float64, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockTranscoder) Segment(ctx context.Context, inputPath, outputPattern string, segmentSeconds int) error {
	args := m.Called(ctx, inputPath, outputPattern, segmentSeconds)
	return args.Error(0)
}
