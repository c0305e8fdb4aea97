package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func userTurn(text string) domain.Turn {
	return domain.Turn{Role: domain.RoleUser, Text: text, Timestamp: time.Now()}
}

func assistantTurn(text string) domain.Turn {
	return domain.Turn{Role: domain.RoleAssistant, Text: text, Timestamp: time.Now()}
}

func TestNewConversationStore_DefaultHistory(t *testing.T) {
	store := NewConversationStore(0)
	require.NotNil(t, store)
	assert.Equal(t, domain.DefaultMaxHistory, store.maxHistory)
}

func TestConversationStore_AppendAndRecent(t *testing.T) {
	store := NewConversationStore(10)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", userTurn("What is a lease?")))
	require.NoError(t, store.Append(ctx, "sess-1", assistantTurn("A lease is a rental contract.")))

	turns, err := store.Recent(ctx, "sess-1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, "What is a lease?", turns[0].Text)
	assert.Equal(t, domain.RoleAssistant, turns[1].Role)
}

func TestConversationStore_Append_InvalidInput(t *testing.T) {
	store := NewConversationStore(10)
	ctx := context.Background()

	err := store.Append(ctx, "", userTurn("hello"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.Append(ctx, "sess-1", domain.Turn{Role: "narrator", Text: "hm"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConversationStore_BoundedHistory(t *testing.T) {
	const maxHistory = 3
	store := NewConversationStore(maxHistory)
	ctx := context.Background()

	// Write well past capacity; only the newest 2*maxHistory turns
	// should survive.
	total := 2*maxHistory + 5
	for i := 0; i < total; i++ {
		require.NoError(t, store.Append(ctx, "sess-1", userTurn(fmt.Sprintf("turn %d", i))))
	}

	turns, err := store.Recent(ctx, "sess-1", 100)
	require.NoError(t, err)
	require.Len(t, turns, 2*maxHistory)
	assert.Equal(t, fmt.Sprintf("turn %d", total-2*maxHistory), turns[0].Text)
	assert.Equal(t, fmt.Sprintf("turn %d", total-1), turns[len(turns)-1].Text)
}

func TestConversationStore_Recent_LimitsCount(t *testing.T) {
	store := NewConversationStore(10)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		require.NoError(t, store.Append(ctx, "sess-1", userTurn(fmt.Sprintf("turn %d", i))))
	}

	turns, err := store.Recent(ctx, "sess-1", 4)
	require.NoError(t, err)
	require.Len(t, turns, 4)
	assert.Equal(t, "turn 2", turns[0].Text)
	assert.Equal(t, "turn 5", turns[3].Text)
}

func TestConversationStore_Recent_UnknownSession(t *testing.T) {
	store := NewConversationStore(10)
	turns, err := store.Recent(context.Background(), "nope", 5)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestConversationStore_Recent_NonPositiveCount(t *testing.T) {
	store := NewConversationStore(10)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "sess-1", userTurn("hi")))

	turns, err := store.Recent(ctx, "sess-1", 0)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestConversationStore_SessionIsolation(t *testing.T) {
	store := NewConversationStore(10)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alpha", userTurn("alpha question")))
	require.NoError(t, store.Append(ctx, "beta", userTurn("beta question")))

	alpha, err := store.Recent(ctx, "alpha", 10)
	require.NoError(t, err)
	require.Len(t, alpha, 1)
	assert.Equal(t, "alpha question", alpha[0].Text)

	beta, err := store.Recent(ctx, "beta", 10)
	require.NoError(t, err)
	require.Len(t, beta, 1)
	assert.Equal(t, "beta question", beta[0].Text)
}

func TestConversationStore_Clear(t *testing.T) {
	store := NewConversationStore(10)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", userTurn("hi")))
	require.NoError(t, store.Clear(ctx, "sess-1"))

	turns, err := store.Recent(ctx, "sess-1", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)

	// Clearing again is a no-op.
	assert.NoError(t, store.Clear(ctx, "sess-1"))
}

func TestConversationStore_Sessions(t *testing.T) {
	store := NewConversationStore(10)
	ctx := context.Background()

	ids, err := store.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.Append(ctx, "beta", userTurn("b")))
	require.NoError(t, store.Append(ctx, "alpha", userTurn("a")))

	ids, err = store.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, ids)
}

func TestConversationStore_ConcurrentAppends(t *testing.T) {
	store := NewConversationStore(50)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("sess-%d", n%2)
			for j := 0; j < 10; j++ {
				_ = store.Append(ctx, sessionID, userTurn(fmt.Sprintf("w%d t%d", n, j)))
			}
		}(i)
	}
	wg.Wait()

	for _, id := range []string{"sess-0", "sess-1"} {
		turns, err := store.Recent(ctx, id, 100)
		require.NoError(t, err)
		assert.Len(t, turns, 50)
	}
}
