package driven

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// VectorStore stores fragment vectors and supports nearest-neighbour
// search. The dimension is fixed at creation; offering a vector of a
// different dimension is a domain.DimensionMismatchError.
//
// Concurrency contract: searches may run concurrently with each other;
// Create, Add, Clear and Load must be mutually exclusive with any other
// operation on the same store instance.
type VectorStore interface {
	// Create builds a fresh index from the given vectors, discarding any
	// existing content. Fails with domain.ErrEmptyInput when vectors is
	// empty.
	Create(ctx context.Context, vectors []domain.IndexedVector) error

	// Add incrementally inserts vectors. On an uninitialised store it
	// behaves as Create. Adding an empty batch to an initialised store is
	// a no-op.
	Add(ctx context.Context, vectors []domain.IndexedVector) error

	// Search finds the k best matches for the query vector, best match
	// first regardless of the underlying metric direction. An
	// uninitialised store fails with domain.ErrNotInitialized, never an
	// empty success.
	Search(ctx context.Context, query []float32, k int) ([]domain.SearchResult, error)

	// Clear discards all vectors. Subsequent searches fail with
	// domain.ErrNotInitialized until the next Create or Add.
	Clear(ctx context.Context) error

	// Len returns the number of stored vectors.
	Len() int

	// Dimensions returns the vector dimension the store was built with,
	// or zero when uninitialised.
	Dimensions() int

	// Save persists the full index, including its dimension, to path.
	Save(path string) error

	// Load restores an index persisted by Save. The embedded dimension is
	// validated by the caller against its embedding provider.
	Load(path string) error

	// Close releases resources.
	Close() error
}
