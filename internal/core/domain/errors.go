package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates an empty fragment set was passed where at
	// least one fragment is required.
	ErrEmptyInput = errors.New("empty input: at least one fragment is required")

	// ErrNotInitialized indicates a search against a vector index that has
	// never been populated. This is deliberately distinct from an empty
	// result: "no documents ingested yet" is a caller-visible state.
	ErrNotInitialized = errors.New("vector index not initialised")

	// ErrNoDocuments indicates retrieval produced no relevant fragments.
	// Callers must surface this separately from generation failures.
	ErrNoDocuments = errors.New("no relevant documents found")

	// ErrLLMUnavailable indicates the language model service is not
	// configured. Answering and query rewriting are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and retrieval are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrUnsupportedKind indicates an unknown document kind was uploaded.
	ErrUnsupportedKind = errors.New("unsupported document kind")
)

// DimensionMismatchError indicates a vector dimension incompatible with
// the index. This is a fatal configuration error raised at index creation
// or load time, never per query.
type DimensionMismatchError struct {
	// Want is the dimension the index was built with.
	Want int

	// Got is the dimension that was offered.
	Got int
}

// Error implements the error interface.
func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: index has %d, got %d", e.Want, e.Got)
}

// ConfigurationError indicates invalid or missing configuration.
// It is fatal at startup and never recovered silently.
type ConfigurationError struct {
	// Field names the offending setting.
	Field string

	// Reason explains why the value was rejected.
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// RetrievalError wraps a failure in the retrieval step with the operation
// that failed. Raw provider error text never reaches end users; callers
// translate typed errors into their own response format.
type RetrievalError struct {
	// Op is the retrieval operation that failed ("search", "embed", ...).
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// GenerationError wraps a language model failure during answer synthesis.
// It is surfaced distinctly from retrieval failures so callers can tell
// "nothing to answer from" apart from "couldn't produce an answer".
type GenerationError struct {
	// Model is the language model involved.
	Model string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (model %s): %v", e.Model, e.Err)
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error {
	return e.Err
}
