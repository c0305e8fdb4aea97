package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Index pairs an embedding service with a vector store and keeps their
// dimensions consistent. All text entering or querying the store is
// embedded here, so a dimension mismatch can only arise from switching
// embedding models, which Load and New both detect.
type Index struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewIndex creates an index over the given store and embedder. A store
// that already holds vectors of a different dimension than the embedder
// produces a domain.DimensionMismatchError.
func NewIndex(store driven.VectorStore, embedder driven.EmbeddingService) (*Index, error) {
	if store == nil || embedder == nil {
		return nil, &domain.ConfigurationError{Field: "index", Reason: "vector store and embedding service are required"}
	}
	if dim := store.Dimensions(); dim != 0 && dim != embedder.Dimensions() {
		return nil, &domain.DimensionMismatchError{Want: embedder.Dimensions(), Got: dim}
	}
	return &Index{store: store, embedder: embedder}, nil
}

// Create embeds the fragments and builds a fresh index from them,
// discarding any existing content. The returned vectors carry the
// embeddings so callers can persist them without re-embedding.
func (idx *Index) Create(ctx context.Context, fragments []domain.Fragment) ([]domain.IndexedVector, error) {
	if len(fragments) == 0 {
		return nil, domain.ErrEmptyInput
	}

	vectors, err := idx.embed(ctx, fragments)
	if err != nil {
		return nil, err
	}
	if err := idx.store.Create(ctx, vectors); err != nil {
		return nil, err
	}
	logger.Debug("Created index with %d fragments (dim=%d)", len(vectors), idx.embedder.Dimensions())
	return vectors, nil
}

// Add embeds the fragments and inserts them incrementally. On an empty
// index it behaves as Create.
func (idx *Index) Add(ctx context.Context, fragments []domain.Fragment) ([]domain.IndexedVector, error) {
	if len(fragments) == 0 {
		if idx.store.Len() == 0 {
			return nil, domain.ErrEmptyInput
		}
		return nil, nil
	}

	vectors, err := idx.embed(ctx, fragments)
	if err != nil {
		return nil, err
	}
	if err := idx.store.Add(ctx, vectors); err != nil {
		return nil, err
	}
	logger.Debug("Added %d fragments to index (total=%d)", len(vectors), idx.store.Len())
	return vectors, nil
}

// Search embeds the query and returns the k best fragments, best first.
// Each returned fragment carries its retrieval score under
// domain.MetadataKeyRelevance.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	vector, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	results, err := idx.store.Search(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	for i := range results {
		meta := make(map[string]any, len(results[i].Fragment.Metadata)+1)
		for key, value := range results[i].Fragment.Metadata {
			meta[key] = value
		}
		meta[domain.MetadataKeyRelevance] = results[i].Score
		results[i].Fragment.Metadata = meta
	}
	return results, nil
}

// Rebuild replaces the store content with already-embedded vectors,
// typically read back from the document store after a deletion. An empty
// set clears the index.
func (idx *Index) Rebuild(ctx context.Context, vectors []domain.IndexedVector) error {
	if err := idx.store.Clear(ctx); err != nil {
		return err
	}
	if len(vectors) == 0 {
		logger.Debug("Rebuilt index empty")
		return nil
	}
	for _, v := range vectors {
		if len(v.Vector) != idx.embedder.Dimensions() {
			return &domain.DimensionMismatchError{Want: idx.embedder.Dimensions(), Got: len(v.Vector)}
		}
	}
	if err := idx.store.Create(ctx, vectors); err != nil {
		return err
	}
	logger.Debug("Rebuilt index with %d fragments", len(vectors))
	return nil
}

// Load restores a persisted index and validates its dimension against
// the embedding service.
func (idx *Index) Load(path string) error {
	if err := idx.store.Load(path); err != nil {
		return err
	}
	if dim := idx.store.Dimensions(); dim != idx.embedder.Dimensions() {
		return &domain.DimensionMismatchError{Want: idx.embedder.Dimensions(), Got: dim}
	}
	return nil
}

// Save persists the index to path.
func (idx *Index) Save(path string) error {
	return idx.store.Save(path)
}

// Len returns the number of indexed fragments.
func (idx *Index) Len() int {
	return idx.store.Len()
}

func (idx *Index) embed(ctx context.Context, fragments []domain.Fragment) ([]domain.IndexedVector, error) {
	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Text
	}

	embeddings, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(embeddings) != len(fragments) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d",
			domain.ErrEmbeddingUnavailable, len(fragments), len(embeddings))
	}

	vectors := make([]domain.IndexedVector, len(fragments))
	for i, f := range fragments {
		if len(embeddings[i]) != idx.embedder.Dimensions() {
			return nil, &domain.DimensionMismatchError{Want: idx.embedder.Dimensions(), Got: len(embeddings[i])}
		}
		vectors[i] = domain.IndexedVector{Fragment: f, Vector: embeddings[i]}
	}
	return vectors, nil
}
