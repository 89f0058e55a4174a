package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInference marks a failure of the external inference capability
	// after the retry budget is exhausted. Adapters never return partial
	// or malformed results silently; they fail with this class instead.
	ErrInference = errors.New("inference call failed")

	// ErrValidation marks an extraction result that fails basic shape
	// constraints. Permanent for the current turn, never retried.
	ErrValidation = errors.New("extraction result invalid")

	// ErrRepository marks a read/write failure against persisted job
	// state. The core does not retry it; it surfaces as a failed job.
	ErrRepository = errors.New("repository operation failed")
)
