package domain

import (
	"regexp"
	"strconv"
	"time"
)

// AnswerSource describes one fragment the answer was grounded on.
// Sources are ordered exactly as the fragments were presented to the
// language model, so a "[Source N]" marker in the answer text resolves to
// the entry with Index N.
type AnswerSource struct {
	// Index is the 1-based citation marker position.
	Index int

	// Excerpt is a short preview of the fragment text.
	Excerpt string

	// DocumentID links back to the source document.
	DocumentID string

	// Metadata carries the fragment metadata, including the relevance
	// score when retrieval attached one.
	Metadata map[string]any
}

// AnswerResult is a grounded answer with resolvable citations.
type AnswerResult struct {
	// Text is the generated answer. Citation markers in the text
	// ("[Source 2]") index 1-based into Sources.
	Text string

	// Sources lists the grounding fragments in prompt order.
	Sources []AnswerSource

	// SessionID is the conversational thread the answer belongs to.
	SessionID string

	// Model is the language model that produced the answer.
	Model string

	// GeneratedAt is when the answer was produced.
	GeneratedAt time.Time
}

// citationPattern matches "[Source N]" markers embedded in answer text.
var citationPattern = regexp.MustCompile(`\[Source (\d+)\]`)

// Citations returns the distinct source indexes cited in the answer text,
// in order of first appearance.
func (r AnswerResult) Citations() []int {
	matches := citationPattern.FindAllStringSubmatch(r.Text, -1)
	seen := make(map[int]bool, len(matches))
	var indexes []int
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		indexes = append(indexes, n)
	}
	return indexes
}

// CitationsResolvable reports whether every cited marker has a
// corresponding entry in Sources.
func (r AnswerResult) CitationsResolvable() bool {
	for _, n := range r.Citations() {
		if n < 1 || n > len(r.Sources) {
			return false
		}
	}
	return true
}
