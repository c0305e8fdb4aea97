package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testDocument(id string) *domain.Document {
	return &domain.Document{
		ID:          id,
		URI:         "/notes/" + id + ".txt",
		Title:       id + ".txt",
		Kind:        "txt",
		CharCount:   42,
		ContentHash: "abc123",
		Metadata:    map[string]any{"source": id + ".txt"},
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func testVector(fragID, docID string, seq int) domain.IndexedVector {
	return domain.IndexedVector{
		Fragment: domain.Fragment{
			ID:          fragID,
			DocumentID:  docID,
			Text:        "fragment " + fragID,
			Sequence:    seq,
			CharCount:   9 + len(fragID),
			ContentHash: "hash-" + fragID,
			Metadata:    map[string]any{"source": docID},
		},
		Vector: []float32{0.1, 0.2, 0.3},
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store := newTestStore(t)
	assert.NotEmpty(t, store.Path())
}

func TestStore_SaveAndGetDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := testDocument("doc-1")
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.URI, got.URI)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Kind, got.Kind)
	assert.Equal(t, doc.CharCount, got.CharCount)
	assert.Equal(t, doc.ContentHash, got.ContentHash)
	assert.Equal(t, "doc-1.txt", got.Metadata["source"])
}

func TestStore_GetDocumentByURI(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1")))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-2")))

	got, err := store.GetDocumentByURI(ctx, "/notes/doc-2.txt")
	require.NoError(t, err)
	assert.Equal(t, "doc-2", got.ID)

	_, err = store.GetDocumentByURI(ctx, "/notes/absent.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveDocument_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := testDocument("doc-1")
	require.NoError(t, store.SaveDocument(ctx, doc))

	doc.Title = "renamed.txt"
	doc.ContentHash = "def456"
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed.txt", got.Title)
	assert.Equal(t, "def456", got.ContentHash)
}

func TestStore_GetDocument_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetDocument(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListDocuments_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := testDocument("older")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, store.SaveDocument(ctx, older))
	require.NoError(t, store.SaveDocument(ctx, testDocument("newer")))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "newer", docs[0].ID)
	assert.Equal(t, "older", docs[1].ID)
}

func TestStore_DeleteDocument_CascadesFragments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1")))
	require.NoError(t, store.SaveFragments(ctx, []domain.IndexedVector{
		testVector("f1", "doc-1", 0),
		testVector("f2", "doc-1", 1),
	}))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	fragments, err := store.GetFragments(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, fragments)
}

func TestStore_DeleteDocument_NotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.DeleteDocument(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveFragments_RoundTripsVectors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1")))
	want := []domain.IndexedVector{
		testVector("f1", "doc-1", 0),
		testVector("f2", "doc-1", 1),
	}
	require.NoError(t, store.SaveFragments(ctx, want))

	got, err := store.GetFragments(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "f1", got[0].Fragment.ID)
	assert.Equal(t, "fragment f1", got[0].Fragment.Text)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got[0].Vector)
	assert.Equal(t, "doc-1", got[0].Fragment.Metadata["source"])
}

func TestStore_SaveFragments_ReplacesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1")))
	require.NoError(t, store.SaveFragments(ctx, []domain.IndexedVector{
		testVector("old", "doc-1", 0),
	}))
	require.NoError(t, store.SaveFragments(ctx, []domain.IndexedVector{
		testVector("new-0", "doc-1", 0),
		testVector("new-1", "doc-1", 1),
	}))

	got, err := store.GetFragments(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new-0", got[0].Fragment.ID)
	assert.Equal(t, "new-1", got[1].Fragment.ID)
}

func TestStore_SaveFragments_EmptyIsNoOp(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.SaveFragments(context.Background(), nil))
}

func TestStore_GetFragments_SequenceOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1")))
	require.NoError(t, store.SaveFragments(ctx, []domain.IndexedVector{
		testVector("f2", "doc-1", 2),
		testVector("f0", "doc-1", 0),
		testVector("f1", "doc-1", 1),
	}))

	got, err := store.GetFragments(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, v := range got {
		assert.Equal(t, i, v.Fragment.Sequence)
	}
}

func TestStore_AllFragments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-a")))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-b")))
	require.NoError(t, store.SaveFragments(ctx, []domain.IndexedVector{
		testVector("a1", "doc-a", 0),
		testVector("a2", "doc-a", 1),
	}))
	require.NoError(t, store.SaveFragments(ctx, []domain.IndexedVector{
		testVector("b1", "doc-b", 0),
	}))

	all, err := store.AllFragments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "doc-a", all[0].Fragment.DocumentID)
	assert.Equal(t, "doc-b", all[2].Fragment.DocumentID)
	for _, v := range all {
		assert.Len(t, v.Vector, 3)
	}
}

func TestStore_Reopen_PreservesData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1")))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1.txt", got.Title)
}
