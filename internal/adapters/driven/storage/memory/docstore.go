// Package memory provides in-memory implementations of the storage
// ports. The conversation store is the production implementation;
// the document store backs tests and ephemeral runs where nothing
// should touch disk.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	fragments map[string][]domain.IndexedVector
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		fragments: make(map[string][]domain.IndexedVector),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetDocumentByURI retrieves a document by its source URI.
func (s *DocumentStore) GetDocumentByURI(_ context.Context, uri string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.documents {
		if doc.URI == uri {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListDocuments returns all documents, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// DeleteDocument removes a document and its fragments.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.fragments, id)
	return nil
}

// SaveFragments stores fragments with their vectors, replacing any
// existing fragments of the same document.
func (s *DocumentStore) SaveFragments(_ context.Context, vectors []domain.IndexedVector) error {
	if len(vectors) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docID := vectors[0].Fragment.DocumentID
	stored := make([]domain.IndexedVector, len(vectors))
	copy(stored, vectors)
	s.fragments[docID] = stored
	return nil
}

// GetFragments retrieves the fragments of one document in sequence order.
func (s *DocumentStore) GetFragments(_ context.Context, documentID string) ([]domain.IndexedVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.fragments[documentID]
	if !ok {
		return nil, nil
	}
	out := make([]domain.IndexedVector, len(stored))
	copy(out, stored)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Fragment.Sequence < out[j].Fragment.Sequence
	})
	return out, nil
}

// AllFragments retrieves every stored fragment with its vector.
func (s *DocumentStore) AllFragments(_ context.Context) ([]domain.IndexedVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docIDs := make([]string, 0, len(s.fragments))
	for id := range s.fragments {
		docIDs = append(docIDs, id)
	}
	sort.Strings(docIDs)

	var out []domain.IndexedVector
	for _, id := range docIDs {
		out = append(out, s.fragments[id]...)
	}
	return out, nil
}

// Close releases resources.
func (s *DocumentStore) Close() error {
	return nil
}
