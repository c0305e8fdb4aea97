package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// IngestResult summarises one ingestion.
type IngestResult struct {
	// Document is the stored document record.
	Document domain.Document

	// Fragments is the number of fragments indexed.
	Fragments int
}

// IngestService feeds documents into the corpus and keeps the vector
// index consistent with the document store.
type IngestService interface {
	// IngestFile reads, normalises, fragments, embeds and indexes a file.
	IngestFile(ctx context.Context, path string) (*IngestResult, error)

	// IngestBytes ingests an in-memory document under the given name.
	// The kind is derived from the name's extension.
	IngestBytes(ctx context.Context, name string, data []byte) (*IngestResult, error)

	// Delete removes a document and rebuilds the vector index from the
	// remaining fragments so no stale vectors stay queryable.
	Delete(ctx context.Context, documentID string) error

	// Rebuild reconstructs the vector index from the document store.
	Rebuild(ctx context.Context) error
}

// SessionService manages conversational threads.
type SessionService interface {
	// Clear removes a session's history. Idempotent.
	Clear(ctx context.Context, sessionID string) error

	// List returns the known session IDs.
	List(ctx context.Context) ([]string, error)
}
