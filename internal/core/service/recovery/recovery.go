package recovery

import (
	"audiopress/internal/core/port"
	"log/slog"
)

type recoveryService struct {
	registry port.ArtifactRegistry
	store    port.BlobStore
	logger   *slog.Logger
}

// NewRecoveryService creates a new recovery service
func NewRecoveryService(registry port.ArtifactRegistry, store port.BlobStore, logger *slog.Logger) port.RecoveryService {
	return &recoveryService{
		registry: registry,
		store:    store,
		logger:   logger,
	}
}
