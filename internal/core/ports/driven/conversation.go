package driven

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// ConversationStore keeps bounded per-session conversation history.
//
// Concurrency contract: operations on the same session ID are atomic with
// respect to each other; operations on different session IDs must not
// block each other.
type ConversationStore interface {
	// Append records a turn for the session, creating the session on
	// first use and evicting the oldest turn once the configured capacity
	// is exceeded.
	Append(ctx context.Context, sessionID string, turn domain.Turn) error

	// Recent returns up to count most recent turns, oldest first. An
	// unknown session yields an empty result, not an error.
	Recent(ctx context.Context, sessionID string, count int) ([]domain.Turn, error)

	// Clear removes a session's history. Clearing a nonexistent session
	// is a no-op.
	Clear(ctx context.Context, sessionID string) error

	// Sessions lists the known session IDs.
	Sessions(ctx context.Context) ([]string, error)
}
