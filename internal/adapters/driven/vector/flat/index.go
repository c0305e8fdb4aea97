// Package flat provides a brute-force vector store with cosine
// similarity scoring. It trades search speed for exactness and zero
// native dependencies; at the corpus sizes a single-user document
// collection reaches, exhaustive scan is faster than index maintenance.
package flat

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorStore = (*Index)(nil)

// Index is an exhaustive-scan vector store. Searches may run
// concurrently; mutations take the write lock.
type Index struct {
	mu          sync.RWMutex
	entries     []domain.IndexedVector
	dimension   int
	initialised bool
}

// persistedIndex is the on-disk layout written by Save.
type persistedIndex struct {
	Dimension int                    `json:"dimension"`
	Entries   []domain.IndexedVector `json:"entries"`
}

// New creates an empty, uninitialised index. The dimension is fixed by
// the first Create, Add or Load.
func New() *Index {
	return &Index{}
}

// Create builds a fresh index from the given vectors, discarding any
// existing content.
func (idx *Index) Create(_ context.Context, vectors []domain.IndexedVector) error {
	if len(vectors) == 0 {
		return domain.ErrEmptyInput
	}

	dim := len(vectors[0].Vector)
	for _, v := range vectors {
		if len(v.Vector) != dim {
			return &domain.DimensionMismatchError{Want: dim, Got: len(v.Vector)}
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.entries = make([]domain.IndexedVector, len(vectors))
	copy(idx.entries, vectors)
	idx.dimension = dim
	idx.initialised = true
	return nil
}

// Add incrementally inserts vectors. On an uninitialised index it
// behaves as Create; an empty batch on an initialised index is a no-op.
func (idx *Index) Add(ctx context.Context, vectors []domain.IndexedVector) error {
	idx.mu.RLock()
	ready := idx.initialised
	idx.mu.RUnlock()

	if !ready {
		return idx.Create(ctx, vectors)
	}
	if len(vectors) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, v := range vectors {
		if len(v.Vector) != idx.dimension {
			return &domain.DimensionMismatchError{Want: idx.dimension, Got: len(v.Vector)}
		}
	}
	idx.entries = append(idx.entries, vectors...)
	return nil
}

// Search scans all stored vectors and returns the k most similar by
// cosine similarity, best first.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]domain.SearchResult, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.initialised {
		return nil, domain.ErrNotInitialized
	}
	if len(query) != idx.dimension {
		return nil, &domain.DimensionMismatchError{Want: idx.dimension, Got: len(query)}
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	results := make([]domain.SearchResult, 0, len(idx.entries))
	for _, e := range idx.entries {
		results = append(results, domain.SearchResult{
			Fragment: e.Fragment,
			Score:    cosineSimilarity(query, e.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Clear discards all vectors and returns the index to the
// uninitialised state.
func (idx *Index) Clear(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.entries = nil
	idx.dimension = 0
	idx.initialised = false
	return nil
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Dimensions returns the vector dimension, or zero when uninitialised.
func (idx *Index) Dimensions() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dimension
}

// Save writes the index to path atomically.
func (idx *Index) Save(path string) error {
	idx.mu.RLock()
	snapshot := persistedIndex{
		Dimension: idx.dimension,
		Entries:   idx.entries,
	}
	ready := idx.initialised
	idx.mu.RUnlock()

	if !ready {
		return domain.ErrNotInitialized
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace index: %w", err)
	}
	return nil
}

// Load restores an index persisted by Save, replacing any current
// content.
func (idx *Index) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return fmt.Errorf("read index: %w", err)
	}

	var stored persistedIndex
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("decode index: %w", err)
	}
	if stored.Dimension <= 0 || len(stored.Entries) == 0 {
		return fmt.Errorf("%w: index file %s holds no vectors", domain.ErrInvalidInput, path)
	}
	for _, e := range stored.Entries {
		if len(e.Vector) != stored.Dimension {
			return &domain.DimensionMismatchError{Want: stored.Dimension, Got: len(e.Vector)}
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.entries = stored.Entries
	idx.dimension = stored.Dimension
	idx.initialised = true
	return nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// cosineSimilarity returns the cosine of the angle between a and b.
// A zero vector on either side yields zero.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
