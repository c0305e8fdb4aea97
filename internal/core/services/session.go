package services

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService manages conversational threads.
type SessionService struct {
	conversations driven.ConversationStore
}

// NewSessionService creates a session service over the given store.
func NewSessionService(conversations driven.ConversationStore) *SessionService {
	return &SessionService{conversations: conversations}
}

// Clear removes a session's history. Idempotent.
func (s *SessionService) Clear(ctx context.Context, sessionID string) error {
	return s.conversations.Clear(ctx, sessionID)
}

// List returns the known session IDs.
func (s *SessionService) List(ctx context.Context) ([]string, error) {
	return s.conversations.Sessions(ctx)
}
