package ingest

import (
	"audiopress/internal/config"
	"audiopress/internal/core/domain"
	"audiopress/internal/core/port"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type ingestService struct {
	registry  port.ArtifactRegistry
	store     port.BlobStore
	uploadCfg config.UploadConfig
	logger    *slog.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(registry port.ArtifactRegistry, store port.BlobStore, cfg config.UploadConfig, logger *slog.Logger) port.IngestService {
	return &ingestService{registry: registry, store: store, uploadCfg: cfg, logger: logger}
}

// detectMedia decides the content type of a staged blob. The declared
// type is a client claim, so the staged bytes are sniffed as well and
// either signal is enough to accept. Uploads are only rejected when one
// side positively identifies a non-media type; two unknowns pass, since
// raw curl uploads of exotic codecs produce exactly that.
func (s *ingestService) detectMedia(ctx context.Context, key string, declared string) (string, error) {

	declaredMime := extractMimeType(declared)

	reader, err := s.store.Open(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to open staged blob for sniffing: %w", err)
	}
	defer reader.Close()

	detected, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", fmt.Errorf("failed to sniff media type: %w", err)
	}
	detectedMime := detected.String()

	switch {
	case isMediaMime(detectedMime):
		return detectedMime, nil
	case isMediaMime(declaredMime):
		return declaredMime, nil
	case isOpaqueMime(detectedMime) && isOpaqueMime(declaredMime):
		return "application/octet-stream", nil
	}

	return "", fmt.Errorf("%w: declared %q, detected %q", domain.ErrUnsupportedMedia, declared, detectedMime)
}

func isMediaMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "audio/") ||
		strings.HasPrefix(mimeType, "video/") ||
		mimeType == "application/ogg"
}

func isOpaqueMime(mimeType string) bool {
	return mimeType == "" || mimeType == "application/octet-stream"
}

func extractMimeType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mimeType
}
