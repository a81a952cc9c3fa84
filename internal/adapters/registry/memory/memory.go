package memory

import (
	"audiopress/internal/core/domain"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry is the in-memory artifact registry. All reads return copies;
// interior pointers never escape the lock.
type Registry struct {
	mu        sync.RWMutex
	artifacts map[uuid.UUID]domain.Artifact
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		artifacts: make(map[uuid.UUID]domain.Artifact),
	}
}

// Register stores a new artifact as given
func (r *Registry) Register(ctx context.Context, artifact *domain.Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.artifacts[artifact.ID]; ok {
		return fmt.Errorf("%w: artifact %s", domain.ErrAlreadyExists, artifact.ID)
	}

	stored := *artifact
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.artifacts[artifact.ID] = stored
	return nil
}

// Get returns a snapshot of the artifact with the given id
func (r *Registry) Get(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	artifact, ok := r.artifacts[id]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return &artifact, nil
}

// UpdateStatus applies a status transition together with the optional
// fields of update. Illegal transitions leave the artifact untouched.
func (r *Registry) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ArtifactStatus, update domain.ArtifactUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	artifact, ok := r.artifacts[id]
	if !ok {
		return domain.ErrArtifactNotFound
	}

	if !artifact.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStateTransition, artifact.Status, status)
	}

	if update.Path != nil {
		artifact.Path = *update.Path
	}
	if update.SizeBytes != nil {
		artifact.SizeBytes = *update.SizeBytes
	}
	if update.ContentType != nil {
		artifact.ContentType = *update.ContentType
	}
	if update.Diagnostic != nil {
		artifact.Diagnostic = *update.Diagnostic
	}
	artifact.Status = status

	r.artifacts[id] = artifact
	return nil
}

// ListExpirable returns a point-in-time snapshot of every artifact whose
// TTL has elapsed at now and that has not already been marked expired
func (r *Registry) ListExpirable(ctx context.Context, now time.Time, ttl time.Duration) ([]domain.Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var expirable []domain.Artifact
	for _, artifact := range r.artifacts {
		if artifact.Status == domain.ArtifactStatusExpired {
			continue
		}
		if artifact.CreatedAt.Add(ttl).After(now) {
			continue
		}
		expirable = append(expirable, artifact)
	}
	return expirable, nil
}

// Remove deletes the entry with the given id. Removing an absent id is a no-op.
func (r *Registry) Remove(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.artifacts, id)
	return nil
}

// Len returns the number of registered artifacts
func (r *Registry) Len(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.artifacts)
}
