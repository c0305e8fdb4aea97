package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// session holds one conversational thread. Each session carries its own
// lock so appends to different sessions never contend.
type session struct {
	mu        sync.Mutex
	turns     []domain.Turn
	createdAt time.Time
}

// ConversationStore is an in-memory implementation of
// driven.ConversationStore with bounded per-session history. A session
// retains at most 2*maxHistory turns (maxHistory question/answer pairs);
// the oldest turns are evicted first.
type ConversationStore struct {
	mu         sync.RWMutex
	sessions   map[string]*session
	maxHistory int
}

// NewConversationStore creates a store retaining maxHistory exchange
// pairs per session. A non-positive maxHistory falls back to the domain
// default.
func NewConversationStore(maxHistory int) *ConversationStore {
	if maxHistory <= 0 {
		maxHistory = domain.DefaultMaxHistory
	}
	return &ConversationStore{
		sessions:   make(map[string]*session),
		maxHistory: maxHistory,
	}
}

// Append records a turn for the session, creating the session on first
// use and evicting the oldest turns beyond capacity.
func (s *ConversationStore) Append(_ context.Context, sessionID string, turn domain.Turn) error {
	if sessionID == "" {
		return domain.ErrInvalidInput
	}
	if !turn.Role.IsValid() {
		return domain.ErrInvalidInput
	}

	sess := s.getOrCreate(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.turns = append(sess.turns, turn)
	if max := 2 * s.maxHistory; len(sess.turns) > max {
		sess.turns = append([]domain.Turn(nil), sess.turns[len(sess.turns)-max:]...)
	}
	return nil
}

// Recent returns up to count most recent turns, oldest first.
func (s *ConversationStore) Recent(_ context.Context, sessionID string, count int) ([]domain.Turn, error) {
	if count <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	start := len(sess.turns) - count
	if start < 0 {
		start = 0
	}
	out := make([]domain.Turn, len(sess.turns)-start)
	copy(out, sess.turns[start:])
	return out, nil
}

// Clear removes a session's history. Clearing a nonexistent session is
// a no-op.
func (s *ConversationStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Sessions lists the known session IDs, sorted for stable output.
func (s *ConversationStore) Sessions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *ConversationStore) getOrCreate(sessionID string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[sessionID]; ok {
		return sess
	}
	sess = &session{createdAt: time.Now()}
	s.sessions[sessionID] = sess
	return sess
}
