package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore persists session history in the same SQLite database
// as the corpus, so follow-up questions work across CLI invocations.
// Each session keeps at most maxHistory question/answer pairs; older
// turns are pruned on append.
type ConversationStore struct {
	store      *Store
	maxHistory int
}

// NewConversationStore creates a conversation store backed by an open
// corpus store. maxHistory is the number of exchanges retained per
// session; non-positive values fall back to the default.
func NewConversationStore(store *Store, maxHistory int) *ConversationStore {
	if maxHistory <= 0 {
		maxHistory = domain.DefaultMaxHistory
	}
	return &ConversationStore{
		store:      store,
		maxHistory: maxHistory,
	}
}

// Append records a turn for the session and prunes history beyond the
// retention cap.
func (c *ConversationStore) Append(ctx context.Context, sessionID string, turn domain.Turn) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session ID is required", domain.ErrInvalidInput)
	}
	if !turn.Role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, turn.Role)
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var nextSeq int64
	row := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) + 1 FROM turns WHERE session_id = ?", sessionID)
	if err := row.Scan(&nextSeq); err != nil {
		return fmt.Errorf("allocating sequence number: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO turns (session_id, seq, role, text, created_at) VALUES (?, ?, ?, ?, ?)",
		sessionID, nextSeq, turn.Role.String(), turn.Text, turn.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("inserting turn: %w", err)
	}

	// A pair of turns per exchange, so the row cap is twice the
	// exchange cap.
	capRows := int64(2 * c.maxHistory)
	if nextSeq > capRows {
		_, err = tx.ExecContext(ctx,
			"DELETE FROM turns WHERE session_id = ? AND seq <= ?",
			sessionID, nextSeq-capRows)
		if err != nil {
			return fmt.Errorf("pruning old turns: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing turn: %w", err)
	}
	return nil
}

// Recent returns up to count most recent turns, oldest first. An unknown
// session yields an empty result.
func (c *ConversationStore) Recent(ctx context.Context, sessionID string, count int) ([]domain.Turn, error) {
	if count <= 0 {
		return nil, nil
	}

	rows, err := c.store.db.QueryContext(ctx,
		"SELECT role, text, created_at FROM turns WHERE session_id = ? ORDER BY seq DESC LIMIT ?",
		sessionID, count)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only query

	var turns []domain.Turn
	for rows.Next() {
		var t domain.Turn
		var role string
		if err := rows.Scan(&role, &t.Text, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		t.Role = domain.Role(role)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}

	// Query returned newest first; callers expect oldest first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Clear removes a session's history. Clearing an unknown session is a
// no-op.
func (c *ConversationStore) Clear(ctx context.Context, sessionID string) error {
	if _, err := c.store.db.ExecContext(ctx,
		"DELETE FROM turns WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Sessions lists the known session IDs.
func (c *ConversationStore) Sessions(ctx context.Context) ([]string, error) {
	rows, err := c.store.db.QueryContext(ctx,
		"SELECT DISTINCT session_id FROM turns ORDER BY session_id")
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only query

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning session ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return ids, nil
}
