package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// rewriteTurnWindow is how many recent turns inform a rewrite.
const rewriteTurnWindow = 4

const rewritePrompt = `Given the conversation history below, rewrite the follow-up question into a self-contained question that can be understood without the history. Resolve pronouns and references to earlier turns. Keep the question's intent and language. Return only the rewritten question, nothing else.

Conversation history:
%s

Follow-up question: %s

Self-contained question:`

// QueryRewriter turns follow-up questions into self-contained queries
// using recent conversation history. It degrades gracefully: any model
// failure falls back to the original question so retrieval still runs.
type QueryRewriter struct {
	llm driven.LLMService
}

// NewQueryRewriter creates a rewriter over the given model.
func NewQueryRewriter(llm driven.LLMService) *QueryRewriter {
	return &QueryRewriter{llm: llm}
}

// Rewrite returns a self-contained version of question. With no history
// the question is already self-contained and no model call is made.
func (r *QueryRewriter) Rewrite(ctx context.Context, question string, history []domain.Turn) string {
	question = strings.TrimSpace(question)
	if len(history) == 0 {
		return question
	}

	if len(history) > rewriteTurnWindow {
		history = history[len(history)-rewriteTurnWindow:]
	}

	prompt := fmt.Sprintf(rewritePrompt, formatTurns(history), question)
	rewritten, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   256,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Query rewrite failed, using original question: %v", err)
		return question
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		logger.Warn("Query rewrite returned empty text, using original question")
		return question
	}

	if rewritten != question {
		logger.Debug("Rewrote %q -> %q", question, rewritten)
	}
	return rewritten
}

// formatTurns renders turns as "User:"/"Assistant:" lines, oldest first.
func formatTurns(turns []domain.Turn) string {
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch t.Role {
		case domain.RoleUser:
			b.WriteString("User: ")
		case domain.RoleAssistant:
			b.WriteString("Assistant: ")
		default:
			b.WriteString(t.Role.String() + ": ")
		}
		b.WriteString(t.Text)
	}
	return b.String()
}
