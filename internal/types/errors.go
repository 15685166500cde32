package types

import "errors"

// Domain error taxonomy for the recommendation pipeline. Handlers map these
// onto HTTP statuses; everything else is treated as an internal failure.
var (
	// ErrNoPlacesFound signals that search, fallback widening and AI padding
	// all produced zero candidates, or that exclusion filtering emptied the
	// pool. Wraps an actionable suggestion message for the caller.
	ErrNoPlacesFound = errors.New("no places found")

	// ErrSessionNotFound covers missing, expired and corrupted sessions.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAIService is the generic retryable failure for unclassified errors
	// during orchestration.
	ErrAIService = errors.New("ai service error")

	// ErrIndexNotReady is returned by the vector store admin surface while a
	// rebuild is pending or has failed.
	ErrIndexNotReady = errors.New("vector index not ready")
)
