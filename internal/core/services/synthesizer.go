package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// synthesisTurnWindow is how many recent turns accompany a synthesis.
const synthesisTurnWindow = 6

// excerptRunes bounds the source excerpt attached to an answer.
const excerptRunes = 200

const synthesisSystemPrompt = `You are a document question-answering assistant. Answer using only the numbered sources provided. Cite every claim with its source number in the form [Source N]. If the sources do not contain the answer, say so plainly instead of guessing. Keep answers concise.`

// Synthesizer produces grounded answers from retrieved fragments. It
// holds no state; conversation memory is the caller's concern so a
// failed synthesis never pollutes history.
type Synthesizer struct {
	llm driven.LLMService
}

// NewSynthesizer creates a synthesizer over the given model.
func NewSynthesizer(llm driven.LLMService) *Synthesizer {
	return &Synthesizer{llm: llm}
}

// Synthesize answers the question from the retrieved fragments. The
// fragments keep their retrieval order; source numbering in the prompt
// and in the returned AnswerResult is the same 1-based sequence, so
// citations in the answer text resolve against AnswerResult.Sources.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	question string,
	retrieved []domain.SearchResult,
	history []domain.Turn,
	opts driven.ChatOptions,
) (*domain.AnswerResult, error) {
	if len(retrieved) == 0 {
		return nil, domain.ErrNoDocuments
	}

	if len(history) > synthesisTurnWindow {
		history = history[len(history)-synthesisTurnWindow:]
	}

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    "system",
		Content: synthesisSystemPrompt,
	})
	for _, t := range history {
		messages = append(messages, driven.ChatMessage{
			Role:    t.Role.String(),
			Content: t.Text,
		})
	}
	messages = append(messages, driven.ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf("Sources:\n\n%s\n\nQuestion: %s", formatSources(retrieved), question),
	})

	logger.Debug("Synthesizing answer from %d sources, %d history turns", len(retrieved), len(history))

	text, err := s.llm.Chat(ctx, messages, opts)
	if err != nil {
		return nil, &domain.GenerationError{Model: s.llm.ModelName(), Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &domain.GenerationError{Model: s.llm.ModelName(), Err: fmt.Errorf("model returned empty answer")}
	}

	sources := make([]domain.AnswerSource, len(retrieved))
	for i, r := range retrieved {
		sources[i] = domain.AnswerSource{
			Index:      i + 1,
			Excerpt:    truncateRunes(r.Fragment.Text, excerptRunes),
			DocumentID: r.Fragment.DocumentID,
			Metadata:   r.Fragment.Metadata,
		}
	}

	return &domain.AnswerResult{
		Text:        text,
		Sources:     sources,
		Model:       s.llm.ModelName(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// formatSources renders the retrieved fragments as numbered blocks.
func formatSources(retrieved []domain.SearchResult) string {
	var b strings.Builder
	for i, r := range retrieved {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Source %d]\n%s", i+1, r.Fragment.Text)
	}
	return b.String()
}

// truncateRunes shortens s to at most n runes, appending an ellipsis
// when anything was cut.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
