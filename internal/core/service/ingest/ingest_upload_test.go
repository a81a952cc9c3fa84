package ingest_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"audiopress/internal/adapters/registry"
	"audiopress/internal/adapters/storage"
	"audiopress/internal/config"
	"audiopress/internal/core/domain"
	"audiopress/internal/core/service/ingest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var defaultCfg = config.UploadConfig{
	Dir:        "uploads",
	BaseURL:    "http://localhost:8080",
	MaxMB:      1,
	TTL:        time.Hour,
	SweepEvery: 6 * time.Minute,
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stagedBlob struct {
	*bytes.Reader
}

func (stagedBlob) Close() error { return nil }

func newStagedBlob(b []byte) io.ReadSeekCloser {
	return stagedBlob{bytes.NewReader(b)}
}

// wavHeader is enough of a RIFF/WAVE preamble for content sniffing.
func wavHeader() []byte {
	b := make([]byte, 64)
	copy(b, "RIFF")
	copy(b[8:], "WAVEfmt ")
	return b
}

func TestIngestService_IngestUpload_Success_DeclaredType(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := registry.NewMockArtifactRegistry()
	mockStore := storage.NewMockBlobStore()
	ingestService := ingest.NewIngestService(mockRegistry, mockStore, defaultCfg, discardLogger)

	written := int64(4096)

	mockStore.
		On("Save", ctx, mock.Anything, mock.Anything, defaultCfg.MaxBytes()).
		Return(written, nil)
	mockStore.
		On("Open", ctx, mock.Anything).
		Return(newStagedBlob(make([]byte, 4096)), nil)
	mockStore.
		On("Path", mock.Anything).
		Return("/data/uploads/staged")
	mockRegistry.
		On("Register", ctx, mock.MatchedBy(func(a *domain.Artifact) bool {
			return a.Status == domain.ArtifactStatusPending &&
				a.SizeBytes == written &&
				a.ContentType == "audio/mpeg" &&
				a.Path == "/data/uploads/staged" &&
				!a.CreatedAt.IsZero()
		})).
		Return(nil)

	// Act
	artifactID, err := ingestService.IngestUpload(ctx, strings.NewReader("data"), written, "audio/mpeg; rate=44100")

	// Assert
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, artifactID)
	mockStore.AssertExpectations(t)
	mockRegistry.AssertExpectations(t)
}

func TestIngestService_IngestUpload_Success_SniffedType(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := registry.NewMockArtifactRegistry()
	mockStore := storage.NewMockBlobStore()
	ingestService := ingest.NewIngestService(mockRegistry, mockStore, defaultCfg, discardLogger)

	mockStore.
		On("Save", ctx, mock.Anything, mock.Anything, defaultCfg.MaxBytes()).
		Return(int64(64), nil)
	mockStore.
		On("Open", ctx, mock.Anything).
		Return(newStagedBlob(wavHeader()), nil)
	mockStore.
		On("Path", mock.Anything).
		Return("/data/uploads/staged")
	mockRegistry.
		On("Register", ctx, mock.MatchedBy(func(a *domain.Artifact) bool {
			return strings.HasPrefix(a.ContentType, "audio/")
		})).
		Return(nil)

	// Act: raw body upload without a Content-Type header
	artifactID, err := ingestService.IngestUpload(ctx, bytes.NewReader(wavHeader()), 64, "")

	// Assert
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, artifactID)
	mockRegistry.AssertExpectations(t)
}

func TestIngestService_IngestUpload_Success_UnknownBytes(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := registry.NewMockArtifactRegistry()
	mockStore := storage.NewMockBlobStore()
	ingestService := ingest.NewIngestService(mockRegistry, mockStore, defaultCfg, discardLogger)

	mockStore.
		On("Save", ctx, mock.Anything, mock.Anything, defaultCfg.MaxBytes()).
		Return(int64(128), nil)
	mockStore.
		On("Open", ctx, mock.Anything).
		Return(newStagedBlob(make([]byte, 128)), nil)
	mockStore.
		On("Path", mock.Anything).
		Return("/data/uploads/staged")
	mockRegistry.
		On("Register", ctx, mock.MatchedBy(func(a *domain.Artifact) bool {
			return a.ContentType == "application/octet-stream"
		})).
		Return(nil)

	// Act
	artifactID, err := ingestService.IngestUpload(ctx, bytes.NewReader(make([]byte, 128)), -1, "application/octet-stream")

	// Assert
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, artifactID)
	mockRegistry.AssertExpectations(t)
}

func TestIngestService_IngestUpload_DeclaredSizeTooBig(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := registry.NewMockArtifactRegistry()
	mockStore := storage.NewMockBlobStore()
	ingestService := ingest.NewIngestService(mockRegistry, mockStore, defaultCfg, discardLogger)

	// Act
	artifactID, err := ingestService.IngestUpload(ctx, strings.NewReader("data"), defaultCfg.MaxBytes()+1, "audio/mpeg")

	// Assert
	assert.Error(t, err)
	require.ErrorIs(t, err, domain.ErrPayloadTooLarge)
	assert.Equal(t, uuid.Nil, artifactID)
	mockStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngestService_IngestUpload_StreamTooBig(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := registry.NewMockArtifactRegistry()
	mockStore := storage.NewMockBlobStore()
	ingestService := ingest.NewIngestService(mockRegistry, mockStore, defaultCfg, discardLogger)

	mockStore.
		On("Save", ctx, mock.Anything, mock.Anything, defaultCfg.MaxBytes()).
		Return(int64(0), domain.ErrPayloadTooLarge)

	// Act: chunked upload lying about its size
	artifactID, err := ingestService.IngestUpload(ctx, strings.NewReader("data"), -1, "audio/mpeg")

	// Assert
	assert.Error(t, err)
	require.ErrorIs(t, err, domain.ErrPayloadTooLarge)
	assert.Equal(t, uuid.Nil, artifactID)
	mockStore.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	mockRegistry.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestIngestService_IngestUpload_EmptyPayload(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := registry.NewMockArtifactRegistry()
	mockStore := storage.NewMockBlobStore()
	ingestService := ingest.NewIngestService(mockRegistry, mockStore, defaultCfg, discardLogger)

	mockStore.
		On("Save", ctx, mock.Anything, mock.Anything, defaultCfg.MaxBytes()).
		Return(int64(0), nil)
	mockStore.
		On("Remove", ctx, mock.Anything).
		Return(nil)

	// Act
	artifactID, err := ingestService.IngestUpload(ctx, strings.NewReader(""), 0, "audio/mpeg")

	// Assert
	assert.Error(t, err)
	require.ErrorIs(t, err, domain.ErrEmptyPayload)
	assert.Equal(t, uuid.Nil, artifactID)
	mockStore.AssertExpectations(t)
	mockRegistry.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestIngestService_IngestUpload_UnsupportedMedia(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := registry.NewMockArtifactRegistry()
	mockStore := storage.NewMockBlobStore()
	ingestService := ingest.NewIngestService(mockRegistry, mockStore, defaultCfg, discardLogger)

	page := []byte("<!DOCTYPE html><html><head></head><body></body></html>")

	mockStore.
		On("Save", ctx, mock.Anything, mock.Anything, defaultCfg.MaxBytes()).
		Return(int64(len(page)), nil)
	mockStore.
		On("Open", ctx, mock.Anything).
		Return(newStagedBlob(page), nil)
	mockStore.
		On("Remove", ctx, mock.Anything).
		Return(nil)

	// Act
	artifactID, err := ingestService.IngestUpload(ctx, bytes.NewReader(page), int64(len(page)), "text/html")

	// Assert
	assert.Error(t, err)
	require.ErrorIs(t, err, domain.ErrUnsupportedMedia)
	assert.Equal(t, uuid.Nil, artifactID)
	mockStore.AssertExpectations(t)
	mockRegistry.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestIngestService_IngestUpload_OpenFails(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := registry.NewMockArtifactRegistry()
	mockStore := storage.NewMockBlobStore()
	ingestService := ingest.NewIngestService(mockRegistry, mockStore, defaultCfg, discardLogger)

	mockStore.
		On("Save", ctx, mock.Anything, mock.Anything, defaultCfg.MaxBytes()).
		Return(int64(10), nil)
	mockStore.
		On("Open", ctx, mock.Anything).
		Return(nil, domain.ErrStorageIO)
	mockStore.
		On("Remove", ctx, mock.Anything).
		Return(nil)

	// Act
	artifactID, err := ingestService.IngestUpload(ctx, strings.NewReader("0123456789"), 10, "audio/mpeg")

	// Assert
	assert.Error(t, err)
	require.ErrorIs(t, err, domain.ErrStorageIO)
	assert.Equal(t, uuid.Nil, artifactID)
	mockStore.AssertExpectations(t)
}

func TestIngestService_IngestUpload_RegisterFails(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := registry.NewMockArtifactRegistry()
	mockStore := storage.NewMockBlobStore()
	ingestService := ingest.NewIngestService(mockRegistry, mockStore, defaultCfg, discardLogger)

	mockStore.
		On("Save", ctx, mock.Anything, mock.Anything, defaultCfg.MaxBytes()).
		Return(int64(64), nil)
	mockStore.
		On("Open", ctx, mock.Anything).
		Return(newStagedBlob(wavHeader()), nil)
	mockStore.
		On("Path", mock.Anything).
		Return("/data/uploads/staged")
	mockStore.
		On("Remove", ctx, mock.Anything).
		Return(nil)
	mockRegistry.
		On("Register", ctx, mock.Anything).
		Return(domain.ErrAlreadyExists)

	// Act
	artifactID, err := ingestService.IngestUpload(ctx, bytes.NewReader(wavHeader()), 64, "audio/wav")

	// Assert
	assert.Error(t, err)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Equal(t, uuid.Nil, artifactID)
	mockStore.AssertExpectations(t)
}
