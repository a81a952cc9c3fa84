package port

import (
	"audiopress/internal/core/domain"
	"context"
)

// EventPublisher is an interface to define lifecycle event publication (nats, ...)
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ArtifactEvent) error
	Close() error
}
