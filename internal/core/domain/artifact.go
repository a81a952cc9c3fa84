package domain

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArtifactStatus represents the lifecycle status of an artifact
type ArtifactStatus string

const (
	ArtifactStatusPending ArtifactStatus = "pending"
	ArtifactStatusReady   ArtifactStatus = "ready"
	ArtifactStatusFailed  ArtifactStatus = "failed"
	ArtifactStatusExpired ArtifactStatus = "expired"
)

// ContentTypeOGG is the MIME type of every transcoded artifact
const ContentTypeOGG = "audio/ogg"

const (
	stagingSuffix = ".upload"
	finalSuffix   = ".ogg"
)

// legalTransitions holds the allowed status transitions. Anything
// absent from it is rejected with ErrInvalidStateTransition.
var legalTransitions = map[ArtifactStatus][]ArtifactStatus{
	ArtifactStatusPending: {ArtifactStatusReady, ArtifactStatusFailed, ArtifactStatusExpired},
	ArtifactStatusReady:   {ArtifactStatusExpired},
	ArtifactStatusFailed:  {ArtifactStatusExpired},
	ArtifactStatusExpired: {},
}

// CanTransitionTo reports whether a status change from s to target is legal
func (s ArtifactStatus) CanTransitionTo(target ArtifactStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Artifact represents one uploaded-and-processed audio object
type Artifact struct {
	ID          uuid.UUID
	Path        string
	SizeBytes   int64
	Status      ArtifactStatus
	ContentType string
	CreatedAt   time.Time
	Diagnostic  string
}

// ArtifactUpdate carries the optional fields applied atomically with a
// status transition. Nil fields are left untouched.
type ArtifactUpdate struct {
	Path        *string
	SizeBytes   *int64
	ContentType *string
	Diagnostic  *string
}

// StagingBlobKey is the storage key of an artifact's staged upload
func StagingBlobKey(id uuid.UUID) string {
	return id.String() + stagingSuffix
}

// FinalBlobKey is the storage key of an artifact's transcoded output
func FinalBlobKey(id uuid.UUID) string {
	return id.String() + finalSuffix
}

// ParseFinalBlobKey extracts the artifact id from a final blob key.
// It reports false for staging blobs and foreign files.
func ParseFinalBlobKey(key string) (uuid.UUID, bool) {
	name, found := strings.CutSuffix(key, finalSuffix)
	if !found {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(name)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// BlobInfo is a stat record of one blob under the storage directory
type BlobInfo struct {
	Key       string
	SizeBytes int64
	ModTime   time.Time
}

// ProcessMode tells whether a pipeline run produced one artifact or a split set
type ProcessMode string

const (
	ProcessModeSingle ProcessMode = "single"
	ProcessModeSplit  ProcessMode = "split"
)

// ProcessResult is the outcome of one pipeline run
type ProcessResult struct {
	Mode     ProcessMode
	Artifact *Artifact
	Parts    []Artifact
}

// ArtifactContent is a ready artifact together with its opened blob.
// The caller owns Content and must close it.
type ArtifactContent struct {
	Artifact Artifact
	Content  io.ReadSeekCloser
}
