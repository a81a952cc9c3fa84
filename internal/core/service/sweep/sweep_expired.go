package sweep

import (
	"audiopress/internal/core/domain"
	"context"
	"time"
)

func (s *sweepService) SweepExpired(ctx context.Context, now time.Time) (int, error) {

	candidates, err := s.registry.ListExpirable(ctx, now, s.uploadCfg.TTL)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, artifact := range candidates {
		if err := s.removeArtifact(ctx, artifact, domain.EventTypeArtifactExpired); err != nil {
			s.logger.Error("Failed to sweep expired artifact", "artifact_id", artifact.ID, "err", err)
			continue
		}
		removed++
	}

	s.metrics.AddSwept(removed)
	s.metrics.SetArtifacts(s.registry.Len(ctx))

	if len(candidates) > 0 {
		s.logger.Info("expiry sweep completed", "candidates", len(candidates), "removed", removed)
	}
	return removed, nil
}
