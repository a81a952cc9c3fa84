package eventbroker

import (
	"audiopress/internal/core/domain"
	"context"
)

// NoopPublisher drops every event; used when no broker is configured
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) Publish(ctx context.Context, event domain.ArtifactEvent) error {
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
