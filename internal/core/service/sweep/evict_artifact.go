package sweep

import (
	"audiopress/internal/core/domain"
	"context"
	"errors"

	"github.com/google/uuid"
)

func (s *sweepService) EvictArtifact(ctx context.Context, id uuid.UUID) error {

	artifact, err := s.registry.Get(ctx, id)
	if err != nil {
		// eviction is idempotent
		if errors.Is(err, domain.ErrArtifactNotFound) {
			return nil
		}
		return err
	}

	if err := s.removeArtifact(ctx, *artifact, domain.EventTypeArtifactEvicted); err != nil {
		return err
	}

	s.metrics.SetArtifacts(s.registry.Len(ctx))
	return nil
}
