package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is a type that represents the type of a lifecycle event
type EventType string

const (
	EventTypeArtifactReady   EventType = "ready"
	EventTypeArtifactFailed  EventType = "failed"
	EventTypeArtifactExpired EventType = "expired"
	EventTypeArtifactEvicted EventType = "evicted"
)

// ArtifactEvent is a struct that represents one artifact lifecycle edge,
// published to the event broker when one is configured
type ArtifactEvent struct {
	Type        EventType `json:"type"`
	ArtifactID  uuid.UUID `json:"artifact_id"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `json:"content_type,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
