package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Fragmenter splits normalised text into indexable fragments.
type Fragmenter interface {
	Chunk(documentID, text string, metadata map[string]any) []domain.Fragment
}

// IngestService feeds documents into the corpus. Each ingestion
// normalises, fragments, embeds and indexes in one pass, then persists
// both the document record and the embedded fragments so the index can
// be rebuilt without re-embedding. Re-ingesting a URI with unchanged
// content is a no-op; changed content replaces the earlier version.
type IngestService struct {
	index       *Index
	docStore    driven.DocumentStore
	fragmenter  Fragmenter
	normalisers map[string]driven.Normaliser
	indexPath   string
}

// NewIngestService creates the ingestion service. The normalisers are
// registered under each kind they report; indexPath, when non-empty, is
// where the vector index is persisted after every mutation.
func NewIngestService(
	index *Index,
	docStore driven.DocumentStore,
	fragmenter Fragmenter,
	normalisers []driven.Normaliser,
	indexPath string,
) *IngestService {
	byKind := make(map[string]driven.Normaliser)
	for _, n := range normalisers {
		for _, kind := range n.SupportedKinds() {
			byKind[kind] = n
		}
	}
	return &IngestService{
		index:       index,
		docStore:    docStore,
		fragmenter:  fragmenter,
		normalisers: byKind,
		indexPath:   indexPath,
	}
}

// IngestFile reads, normalises, fragments, embeds and indexes a file.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*driving.IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return s.ingest(ctx, path, filepath.Base(path), data)
}

// IngestBytes ingests an in-memory document under the given name.
func (s *IngestService) IngestBytes(ctx context.Context, name string, data []byte) (*driving.IngestResult, error) {
	return s.ingest(ctx, name, name, data)
}

func (s *IngestService) ingest(ctx context.Context, uri, name string, data []byte) (*driving.IngestResult, error) {
	kind := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	normaliser, ok := s.normalisers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedKind, kind)
	}

	result, err := normaliser.Normalise(ctx, data, name)
	if err != nil {
		return nil, fmt.Errorf("normalising %s: %w", name, err)
	}
	if strings.TrimSpace(result.Content) == "" {
		return nil, fmt.Errorf("%w: %s holds no text", domain.ErrEmptyInput, name)
	}

	existing, err := s.docStore.GetDocumentByURI(ctx, uri)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("looking up %s: %w", uri, err)
	}
	if existing != nil && existing.ContentHash == result.ContentHash {
		stored, err := s.docStore.GetFragments(ctx, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("loading fragments: %w", err)
		}
		logger.Debug("Skipping %s: content unchanged", name)
		return &driving.IngestResult{
			Document:  *existing,
			Fragments: len(stored),
		}, nil
	}

	title := result.Title
	if title == "" {
		title = name
	}
	doc := domain.Document{
		ID:          uuid.NewString(),
		URI:         uri,
		Title:       title,
		Kind:        kind,
		CharCount:   result.CharCount,
		ContentHash: result.ContentHash,
		Metadata:    map[string]any{domain.MetadataKeySource: name},
		CreatedAt:   time.Now().UTC(),
	}

	fragments := s.fragmenter.Chunk(doc.ID, result.Content, map[string]any{domain.MetadataKeySource: name})
	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w: %s produced no fragments", domain.ErrEmptyInput, name)
	}

	vectors, err := s.index.Add(ctx, fragments)
	if err != nil {
		return nil, err
	}

	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	if err := s.docStore.SaveFragments(ctx, vectors); err != nil {
		return nil, fmt.Errorf("saving fragments: %w", err)
	}

	if existing != nil {
		// The new version is saved; drop the old one and rebuild so its
		// vectors leave the index.
		if err := s.docStore.DeleteDocument(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("removing previous version: %w", err)
		}
		if err := s.Rebuild(ctx); err != nil {
			return nil, err
		}
		logger.Info("Reingested %s: %d fragments", name, len(fragments))
	} else {
		s.persistIndex()
		logger.Info("Ingested %s: %d fragments", name, len(fragments))
	}

	return &driving.IngestResult{
		Document:  doc,
		Fragments: len(fragments),
	}, nil
}

// Delete removes a document and rebuilds the vector index from the
// remaining fragments so no stale vectors stay queryable.
func (s *IngestService) Delete(ctx context.Context, documentID string) error {
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	if err := s.Rebuild(ctx); err != nil {
		return err
	}
	logger.Info("Deleted document %s", documentID)
	return nil
}

// Rebuild reconstructs the vector index from the document store using
// the stored embeddings.
func (s *IngestService) Rebuild(ctx context.Context) error {
	vectors, err := s.docStore.AllFragments(ctx)
	if err != nil {
		return fmt.Errorf("loading stored fragments: %w", err)
	}
	if err := s.index.Rebuild(ctx, vectors); err != nil {
		return err
	}
	s.persistIndex()
	return nil
}

func (s *IngestService) persistIndex() {
	if s.indexPath == "" {
		return
	}
	if s.index.Len() == 0 {
		// Nothing to save; drop a stale snapshot if one exists.
		if err := os.Remove(s.indexPath); err != nil && !os.IsNotExist(err) {
			logger.Warn("Removing stale index snapshot failed: %v", err)
		}
		return
	}
	if err := s.index.Save(s.indexPath); err != nil {
		logger.Warn("Persisting index failed: %v", err)
	}
}
