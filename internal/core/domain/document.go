package domain

import "time"

// Document represents an ingested document with metadata.
// It is the canonical representation after normalisation.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path, upload name, etc).
	URI string

	// Title is the human-readable title.
	Title string

	// Kind is the declared file kind ("txt", "md", ...).
	Kind string

	// CharCount is the length of the normalised content in runes.
	CharCount int

	// ContentHash is a deterministic hash of the normalised content.
	ContentHash string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time
}

// Fragment is a bounded slice of document text with provenance metadata.
// It is the unit of indexing and citation. Fragments are immutable once
// created; re-ingesting a document produces new fragments.
type Fragment struct {
	// ID is the unique identifier for the fragment.
	ID string

	// DocumentID links to the source Document.
	DocumentID string

	// Text is the fragment content.
	Text string

	// Sequence is the zero-based position within the source document.
	Sequence int

	// CharCount is the length of Text in runes.
	CharCount int

	// ContentHash is a deterministic hash of Text, used for dedup and audit.
	ContentHash string

	// Metadata contains fragment-specific key-value pairs.
	Metadata map[string]any
}

// Well-known fragment metadata keys.
const (
	// MetadataKeyRelevance is the key under which search-with-score
	// attaches the retrieval score to a fragment.
	MetadataKeyRelevance = "relevance_score"

	// MetadataKeySource is the key under which ingestion records the
	// originating file name.
	MetadataKeySource = "source"
)

// IndexedVector pairs a fragment with its embedding vector.
// The vector dimension is fixed per index instance.
type IndexedVector struct {
	// Fragment is the indexed fragment payload.
	Fragment Fragment

	// Vector is the embedding of Fragment.Text.
	Vector []float32
}

// SearchResult represents a retrieved fragment with a relevance score.
// Score is in the vector store's native scale; callers must not assume a
// universal [0,1] range.
type SearchResult struct {
	Fragment Fragment
	Score    float64
}
