package domain

import "errors"

// ErrPayloadTooLarge is an error thrown when an upload exceeds the size cap
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrEmptyPayload is an error thrown when an upload carries no bytes
var ErrEmptyPayload = errors.New("empty payload")

// ErrUnsupportedMedia is an error thrown when an upload is not audio or video content
var ErrUnsupportedMedia = errors.New("unsupported media type")

// ErrTranscodeFailed is an error thrown when the external transcoder exits with an error
var ErrTranscodeFailed = errors.New("transcode failed")

// ErrTranscodeTimeout is an error thrown when the external transcoder exceeds its deadline
var ErrTranscodeTimeout = errors.New("transcode timed out")

// ErrInvalidStateTransition is an error thrown when a status change is not legal
var ErrInvalidStateTransition = errors.New("invalid state transition")

// ErrAlreadyExists is an error thrown when an artifact id is already registered
var ErrAlreadyExists = errors.New("already exists")

// ErrArtifactNotFound is an error thrown when an artifact is not found
var ErrArtifactNotFound = errors.New("artifact not found")

// ErrArtifactNotReady is an error thrown when an artifact is still processing
var ErrArtifactNotReady = errors.New("artifact not ready")

// ErrProcessingFailed is an error thrown when a requested artifact failed processing
var ErrProcessingFailed = errors.New("processing failed")

// ErrStorageIO is an error thrown when the storage directory cannot be read or written
var ErrStorageIO = errors.New("storage io failure")
