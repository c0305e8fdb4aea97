package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage conversation sessions",
	Long:  `List or clear conversational threads used by 'askdoc ask --session'.`,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionList,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear [session-id]",
	Short: "Clear a session's history",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionClear,
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	if err := initSessions(); err != nil {
		return err
	}
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	ids, err := sessionService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(ids) == 0 {
		cmd.Println("No sessions.")
		return nil
	}

	for _, id := range ids {
		cmd.Printf("  %s\n", id)
	}
	cmd.Printf("Total: %d sessions\n", len(ids))
	return nil
}

func runSessionClear(cmd *cobra.Command, args []string) error {
	if err := initSessions(); err != nil {
		return err
	}
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessionID := args[0]
	if err := sessionService.Clear(context.Background(), sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	cmd.Printf("Session %s cleared.\n", sessionID)
	return nil
}
