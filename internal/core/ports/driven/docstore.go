package driven

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// DocumentStore persists document metadata and fragment vectors. It is
// the system of record that makes selective index rebuilds possible: the
// vector store can always be reconstructed from the fragments kept here.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByURI retrieves a document by its source URI.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocumentByURI(ctx context.Context, uri string) (*domain.Document, error)

	// ListDocuments returns all documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and all its fragments.
	// Deleting a nonexistent document returns domain.ErrNotFound.
	DeleteDocument(ctx context.Context, id string) error

	// SaveFragments stores fragments with their embedding vectors.
	SaveFragments(ctx context.Context, vectors []domain.IndexedVector) error

	// GetFragments retrieves the fragments of one document in sequence
	// order.
	GetFragments(ctx context.Context, documentID string) ([]domain.IndexedVector, error)

	// AllFragments retrieves every stored fragment with its vector,
	// grouped by document. Used to rebuild the vector index after a
	// deletion.
	AllFragments(ctx context.Context) ([]domain.IndexedVector, error)

	// Close releases resources.
	Close() error
}
