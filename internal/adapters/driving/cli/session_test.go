package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func seedTurn(t *testing.T, sessionID string) {
	t.Helper()
	err := conversations.Append(context.Background(), sessionID, domain.Turn{
		Role:      domain.RoleUser,
		Text:      "hello",
		Timestamp: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestSessionCmd_Use(t *testing.T) {
	assert.Equal(t, "session", sessionCmd.Use)
}

func TestSessionListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"session", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No sessions.")
}

func TestSessionListCmd_ListsSessions(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	seedTurn(t, "alpha")
	seedTurn(t, "beta")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"session", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "alpha")
	assert.Contains(t, buf.String(), "beta")
	assert.Contains(t, buf.String(), "Total: 2 sessions")
}

func TestSessionClearCmd_RequiresArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"session", "clear"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSessionClearCmd_ClearsSession(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	seedTurn(t, "alpha")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"session", "clear", "alpha"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Session alpha cleared.")

	turns, err := conversations.Recent(context.Background(), "alpha", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}
