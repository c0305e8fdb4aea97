package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

var (
	askSession  string
	askTopK     int
	askMinScore float64
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested documents",
	Long: `Answers a natural-language question grounded in the ingested corpus.
The most relevant fragments are retrieved by semantic similarity and the
answer cites them with [Source N] markers.

Pass --session to continue a conversation: follow-up questions are
rewritten against the session history before retrieval.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "session ID for conversational follow-ups")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of fragments to retrieve (0 = configured default)")
	askCmd.Flags().Float64Var(&askMinScore, "min-score", -1, "relevance floor, 0 to 1 (-1 = configured default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := initPipeline(ctx); err != nil {
		return err
	}
	if askService == nil {
		return errors.New("ask service not configured")
	}

	opts := driving.AskOptions{
		SessionID: askSession,
		TopK:      askTopK,
		MinScore:  askMinScore,
	}

	answer, err := askService.Ask(ctx, args[0], opts)
	if err != nil {
		if errors.Is(err, domain.ErrNoDocuments) {
			cmd.Println("No relevant documents found. Ingest some with 'askdoc ingest' first.")
			return nil
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	outputAnswerText(cmd, answer)
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.AnswerResult) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.AnswerResult) {
	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			cmd.Printf("  [%d] %s\n", src.Index, src.Excerpt)
			if name, ok := src.Metadata[domain.MetadataKeySource].(string); ok && name != "" {
				cmd.Printf("      From: %s\n", name)
			}
		}
	}

	cmd.Println()
	cmd.Printf("Session: %s\n", answer.SessionID)
}
