package port

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SweepService is a service that handles artifact expiry and eviction
type SweepService interface {
	// SweepExpired removes every artifact past its TTL at now and
	// returns how many it removed. Candidates whose blob cannot be
	// deleted are kept for the next pass.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
	// EvictArtifact removes one artifact ahead of its TTL. Unknown ids
	// are a no-op.
	EvictArtifact(ctx context.Context, id uuid.UUID) error
}
