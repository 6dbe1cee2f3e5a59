package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel categories so callers can branch with errors.Is without
// depending on the concrete error types below.
var (
	ErrAuth             = errors.New("unauthorized")
	ErrEmbeddingService = errors.New("embedding service failure")
	ErrToolExecution    = errors.New("tool execution failure")
	ErrModelService     = errors.New("model service failure")
	ErrPersistence      = errors.New("persistence failure")
)

// AuthError means no resolvable caller identity. It is raised at the
// transport boundary before any model call or side effect.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return ErrAuth }

// EmbeddingServiceError wraps a failed embedding provider call.
type EmbeddingServiceError struct {
	Provider string
	Err      error
}

func (e *EmbeddingServiceError) Error() string {
	return fmt.Sprintf("embedding provider %s: %v", e.Provider, e.Err)
}

func (e *EmbeddingServiceError) Unwrap() error { return ErrEmbeddingService }

// ToolExecutionError captures a tool that failed mid-conversation. It is
// folded into the transcript as an error payload, never raised to the
// transport layer.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return ErrToolExecution }

// ModelServiceError means the language model call itself failed or was
// rate limited. It aborts the current turn.
type ModelServiceError struct {
	Provider string
	Err      error
}

func (e *ModelServiceError) Error() string {
	return fmt.Sprintf("llm provider %s: %v", e.Provider, e.Err)
}

func (e *ModelServiceError) Unwrap() error { return ErrModelService }

// PersistenceError means a transcript write failed after generation. The
// streamed text stays visible; the client is warned via an error status.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }
