package flat

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func vec(id string, v ...float32) domain.IndexedVector {
	return domain.IndexedVector{
		Fragment: domain.Fragment{ID: id, DocumentID: "doc-1", Text: "text for " + id},
		Vector:   v,
	}
}

func TestCreate_EmptyInput(t *testing.T) {
	idx := New()
	err := idx.Create(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestCreate_FixesDimension(t *testing.T) {
	idx := New()
	err := idx.Create(context.Background(), []domain.IndexedVector{
		vec("a", 1, 0, 0),
		vec("b", 0, 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Dimensions())
	assert.Equal(t, 2, idx.Len())
}

func TestCreate_RejectsMixedDimensions(t *testing.T) {
	idx := New()
	err := idx.Create(context.Background(), []domain.IndexedVector{
		vec("a", 1, 0, 0),
		vec("b", 0, 1),
	})

	var dimErr *domain.DimensionMismatchError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 3, dimErr.Want)
	assert.Equal(t, 2, dimErr.Got)
}

func TestAdd_UninitialisedBehavesAsCreate(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Add(context.Background(), []domain.IndexedVector{vec("a", 1, 0)}))
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, 2, idx.Dimensions())
}

func TestAdd_EmptyBatchIsNoOp(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Create(context.Background(), []domain.IndexedVector{vec("a", 1, 0)}))
	require.NoError(t, idx.Add(context.Background(), nil))
	assert.Equal(t, 1, idx.Len())
}

func TestAdd_RejectsWrongDimension(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Create(context.Background(), []domain.IndexedVector{vec("a", 1, 0)}))

	err := idx.Add(context.Background(), []domain.IndexedVector{vec("b", 1, 0, 0)})
	var dimErr *domain.DimensionMismatchError
	assert.ErrorAs(t, err, &dimErr)
}

func TestSearch_Uninitialised(t *testing.T) {
	idx := New()
	_, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestSearch_OrdersByCosineSimilarity(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Create(context.Background(), []domain.IndexedVector{
		vec("orthogonal", 0, 1, 0),
		vec("exact", 1, 0, 0),
		vec("close", 0.9, 0.1, 0),
	}))

	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "exact", results[0].Fragment.ID)
	assert.Equal(t, "close", results[1].Fragment.ID)
	assert.Equal(t, "orthogonal", results[2].Fragment.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.InDelta(t, 0.0, results[2].Score, 1e-6)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_TruncatesToK(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Create(context.Background(), []domain.IndexedVector{
		vec("a", 1, 0),
		vec("b", 0.5, 0.5),
		vec("c", 0, 1),
	}))

	results, err := idx.Search(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_KLargerThanStore(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Create(context.Background(), []domain.IndexedVector{vec("a", 1, 0)}))

	results, err := idx.Search(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_InvalidK(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Create(context.Background(), []domain.IndexedVector{vec("a", 1, 0)}))

	_, err := idx.Search(context.Background(), []float32{1, 0}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Create(context.Background(), []domain.IndexedVector{vec("a", 1, 0)}))

	_, err := idx.Search(context.Background(), []float32{1, 0, 0}, 1)
	var dimErr *domain.DimensionMismatchError
	assert.ErrorAs(t, err, &dimErr)
}

func TestClear_ReturnsToUninitialised(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Create(context.Background(), []domain.IndexedVector{vec("a", 1, 0)}))
	require.NoError(t, idx.Clear(context.Background()))

	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.Dimensions())
	_, err := idx.Search(context.Background(), []float32{1, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")

	idx := New()
	require.NoError(t, idx.Create(context.Background(), []domain.IndexedVector{
		vec("a", 1, 0, 0),
		vec("b", 0, 1, 0),
	}))
	require.NoError(t, idx.Save(path))

	restored := New()
	require.NoError(t, restored.Load(path))
	assert.Equal(t, 2, restored.Len())
	assert.Equal(t, 3, restored.Dimensions())

	results, err := restored.Search(context.Background(), []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Fragment.ID)
	assert.Equal(t, "text for a", results[0].Fragment.Text)
}

func TestSave_Uninitialised(t *testing.T) {
	idx := New()
	err := idx.Save(filepath.Join(t.TempDir(), "index.json"))
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestLoad_MissingFile(t *testing.T) {
	idx := New()
	err := idx.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	idx := New()
	err := idx.Load(path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestConcurrentSearches(t *testing.T) {
	idx := New()
	vectors := make([]domain.IndexedVector, 0, 50)
	for i := 0; i < 50; i++ {
		vectors = append(vectors, vec(string(rune('a'+i%26))+"-frag", float32(i), 1, 0))
	}
	require.NoError(t, idx.Create(context.Background(), vectors))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := idx.Search(context.Background(), []float32{1, 1, 0}, 5)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestCreate_CopiesInput(t *testing.T) {
	idx := New()
	input := []domain.IndexedVector{vec("a", 1, 0), vec("b", 0, 1)}
	require.NoError(t, idx.Create(context.Background(), input))

	input[0] = vec("mutated", 0, 0)
	results, err := idx.Search(context.Background(), []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", results[0].Fragment.ID)

	var zeroScore bool
	for _, r := range results {
		if r.Fragment.ID == "mutated" {
			zeroScore = true
		}
	}
	assert.False(t, zeroScore)
}
