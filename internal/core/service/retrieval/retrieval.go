package retrieval

import (
	"audiopress/internal/core/port"
	"log/slog"
)

type retrievalService struct {
	registry port.ArtifactRegistry
	store    port.BlobStore
	logger   *slog.Logger
}

// NewRetrievalService creates a new retrieval service
func NewRetrievalService(registry port.ArtifactRegistry, store port.BlobStore, logger *slog.Logger) port.RetrievalService {
	return &retrievalService{
		registry: registry,
		store:    store,
		logger:   logger,
	}
}
