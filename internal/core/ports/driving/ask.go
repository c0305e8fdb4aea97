package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// AskOptions configures a single question.
type AskOptions struct {
	// SessionID is the conversational thread to use. When empty, a fresh
	// session ID is generated and returned on the answer.
	SessionID string

	// TopK overrides the configured number of fragments to retrieve.
	// Zero keeps the configured value.
	TopK int

	// MinScore overrides the configured relevance floor. Negative keeps
	// the configured value.
	MinScore float64
}

// AskService answers natural-language questions over the ingested corpus.
type AskService interface {
	// Ask runs one retrieve-then-synthesize cycle. It fails with
	// domain.ErrNoDocuments when retrieval produced nothing to ground an
	// answer on, with a domain.RetrievalError when retrieval itself
	// failed, and with a domain.GenerationError when the language model
	// call failed.
	Ask(ctx context.Context, question string, opts AskOptions) (*domain.AnswerResult, error)
}
