package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService orchestrates one question: rewrite against history,
// retrieve, synthesize, and only then record the exchange. A failed
// question leaves the session history untouched.
type AskService struct {
	index         *Index
	rewriter      *QueryRewriter
	synthesizer   *Synthesizer
	conversations driven.ConversationStore
	retrieval     domain.RetrievalSettings
	chatOpts      driven.ChatOptions
}

// NewAskService creates the question-answering orchestrator.
func NewAskService(
	index *Index,
	rewriter *QueryRewriter,
	synthesizer *Synthesizer,
	conversations driven.ConversationStore,
	settings domain.Settings,
) *AskService {
	return &AskService{
		index:         index,
		rewriter:      rewriter,
		synthesizer:   synthesizer,
		conversations: conversations,
		retrieval:     settings.Retrieval,
		chatOpts: driven.ChatOptions{
			MaxTokens:   settings.LLM.MaxTokens,
			Temperature: settings.LLM.Temperature,
		},
	}
}

// Ask runs one retrieve-then-synthesize cycle.
func (s *AskService) Ask(ctx context.Context, question string, opts driving.AskOptions) (*domain.AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrInvalidInput
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
		logger.Debug("Generated session %s", sessionID)
	}

	history, err := s.conversations.Recent(ctx, sessionID, synthesisTurnWindow)
	if err != nil {
		return nil, &domain.RetrievalError{Op: "history", Err: err}
	}

	// Retrieval uses the self-contained rewrite; synthesis keeps the
	// question as asked, with the history providing the context.
	query := s.rewriter.Rewrite(ctx, question, history)

	topK := opts.TopK
	if topK <= 0 {
		topK = s.retrieval.TopK
	}
	minScore := opts.MinScore
	if minScore < 0 {
		minScore = s.retrieval.MinScore
	}

	results, err := s.index.Search(ctx, query, topK)
	if err != nil {
		if errors.Is(err, domain.ErrNotInitialized) {
			return nil, domain.ErrNoDocuments
		}
		return nil, &domain.RetrievalError{Op: "search", Err: err}
	}

	relevant := results[:0:0]
	for _, r := range results {
		if r.Score >= minScore {
			relevant = append(relevant, r)
		}
	}
	if len(relevant) == 0 {
		logger.Debug("No fragments above relevance floor %.2f", minScore)
		return nil, domain.ErrNoDocuments
	}

	answer, err := s.synthesizer.Synthesize(ctx, question, relevant, history, s.chatOpts)
	if err != nil {
		return nil, err
	}
	answer.SessionID = sessionID

	now := time.Now().UTC()
	if err := s.conversations.Append(ctx, sessionID, domain.Turn{
		Role: domain.RoleUser, Text: question, Timestamp: now,
	}); err != nil {
		logger.Warn("Recording question failed: %v", err)
	}
	if err := s.conversations.Append(ctx, sessionID, domain.Turn{
		Role: domain.RoleAssistant, Text: answer.Text, Timestamp: now,
	}); err != nil {
		logger.Warn("Recording answer failed: %v", err)
	}

	return answer, nil
}
