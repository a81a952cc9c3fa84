package port

import "context"

// RecoveryService rebuilds the artifact registry from the storage
// directory at process start
type RecoveryService interface {
	RestoreArtifacts(ctx context.Context) (int, error)
}
