// Package chunker splits normalised document text into overlapping
// fragments suitable for embedding and retrieval.
package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// DefaultChunkSize is the default target fragment size in characters.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// defaultSeparators is the split priority, coarsest first. Finer
// separators are tried only when a piece still exceeds the target size.
var defaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", " "}

// contentHashLen is the number of hex characters kept from the digest.
const contentHashLen = 16

// Processor splits text into fragments along a separator priority list.
// It is a pure function over its inputs: identical text and parameters
// always produce identical fragment content and hash sequences.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the target fragment size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between fragments in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the split priority list, coarsest first.
func WithSeparators(separators []string) Option {
	return func(p *Processor) {
		if len(separators) > 0 {
			p.separators = separators
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: defaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Chunk splits text into fragments for the given document. Empty or
// whitespace-only input yields no fragments. Each fragment receives a
// zero-based sequence index, a rune count, a deterministic content hash,
// and a copy of the supplied base metadata.
//
// A fragment may exceed the target size by at most the overlap when the
// carried-over tail and a near-maximum piece meet at a boundary.
func (p *Processor) Chunk(documentID, text string, metadata map[string]any) []domain.Fragment {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pieces := p.split(text, p.separators)
	contents := p.merge(pieces)

	fragments := make([]domain.Fragment, 0, len(contents))
	for i, content := range contents {
		fragments = append(fragments, domain.Fragment{
			ID:          uuid.New().String(),
			DocumentID:  documentID,
			Text:        content,
			Sequence:    i,
			CharCount:   utf8.RuneCountInString(content),
			ContentHash: ContentHash(content),
			Metadata:    copyMetadata(metadata),
		})
	}

	return fragments
}

// ContentHash returns the deterministic hash used for fragment dedup and
// audit.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:contentHashLen]
}

// split recursively divides text into pieces no longer than the target
// size, preferring the coarsest separator that appears in the text.
func (p *Processor) split(text string, separators []string) []string {
	if utf8.RuneCountInString(text) <= p.chunkSize {
		return []string{text}
	}

	if len(separators) == 0 {
		return p.hardSplit(text)
	}

	sep := separators[0]
	if !strings.Contains(text, sep) {
		return p.split(text, separators[1:])
	}

	var pieces []string
	for _, part := range splitAfter(text, sep) {
		if utf8.RuneCountInString(part) <= p.chunkSize {
			pieces = append(pieces, part)
			continue
		}
		pieces = append(pieces, p.split(part, separators[1:])...)
	}

	return pieces
}

// hardSplit cuts text into fixed-size rune windows. Last resort for runs
// with no separators at all.
func (p *Processor) hardSplit(text string) []string {
	runes := []rune(text)
	pieces := make([]string, 0, len(runes)/p.chunkSize+1)
	for start := 0; start < len(runes); start += p.chunkSize {
		end := start + p.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}

// merge greedily joins pieces into fragments up to the target size,
// carrying the previous fragment's tail forward so adjacent fragments
// share the configured overlap.
func (p *Processor) merge(pieces []string) []string {
	var chunks []string
	var cur string

	for _, piece := range pieces {
		if cur == "" {
			cur = piece
			continue
		}
		if utf8.RuneCountInString(cur)+utf8.RuneCountInString(piece) > p.chunkSize {
			chunks = append(chunks, cur)
			cur = tailRunes(cur, p.overlap) + piece
			continue
		}
		cur += piece
	}

	if cur != "" {
		chunks = append(chunks, cur)
	}

	return chunks
}

// splitAfter splits text on sep, keeping the separator attached to the
// preceding piece so no characters are lost between fragments.
func splitAfter(text, sep string) []string {
	var parts []string
	rest := text
	for {
		i := strings.Index(rest, sep)
		if i < 0 {
			if rest != "" {
				parts = append(parts, rest)
			}
			return parts
		}
		parts = append(parts, rest[:i+len(sep)])
		rest = rest[i+len(sep):]
	}
}

// tailRunes returns the last n runes of s.
func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func copyMetadata(metadata map[string]any) map[string]any {
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
