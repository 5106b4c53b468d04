// Package agents defines the shared agent error taxonomy and the retry
// policy the orchestrator applies around every model-backed call.
package agents

import "fmt"

// ValidationError represents bad caller input or a missing prerequisite for
// a step (e.g. no parsed data before scoring). Never retried.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ConfigError represents missing or invalid job policy or rubric weights.
// Fatal for the step, never retried.
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ParseError represents model output that failed JSON decoding or schema
// validation. Retryable up to the policy bound.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ExternalServiceError represents a timeout or failure of the model
// capability. Retryable up to the policy bound.
type ExternalServiceError struct {
	Message string
	Cause   error
}

func (e *ExternalServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("external service error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("external service error: %s", e.Message)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Cause
}

// ConcurrencyConflictError is returned when a pipeline run is attempted for
// a candidate whose advisory lock is already held. Rejected immediately.
type ConcurrencyConflictError struct {
	CandidateID string
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("concurrency conflict: pipeline already running for candidate %s", e.CandidateID)
}
