package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus and provider status",
	Long: `Reports the state of the corpus, the vector index and the configured
AI providers. Providers are pinged, so this doubles as a connectivity
check.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	settings, err := initSettings()
	if err != nil {
		return err
	}
	if err := initCorpus(); err != nil {
		return err
	}

	ctx := context.Background()

	cmd.Printf("askdoc %s\n\n", version)
	cmd.Printf("Config: %s\n", settingsStore.Path())

	dir, err := dataDir(settings)
	if err != nil {
		return err
	}
	cmd.Printf("Data:   %s\n\n", dir)

	cmd.Println("[Corpus]")
	docs, err := docStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	fragments, err := docStore.AllFragments(ctx)
	if err != nil {
		return fmt.Errorf("failed to count fragments: %w", err)
	}
	cmd.Printf("  Documents: %d\n", len(docs))
	cmd.Printf("  Fragments: %d\n", len(fragments))

	sessions, err := conversations.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	cmd.Printf("  Sessions:  %d\n\n", len(sessions))

	cmd.Println("[Vector Index]")
	idx := vectorIndex
	if idx == nil {
		idx = flat.New()
		indexPath := filepath.Join(dir, "index.json")
		if err := idx.Load(indexPath); err != nil && !errors.Is(err, domain.ErrNotFound) {
			cmd.Printf("  Snapshot: unreadable (%v)\n\n", err)
			idx = nil
		}
	}
	if idx != nil && idx.Len() > 0 {
		cmd.Printf("  Vectors:    %d\n", idx.Len())
		cmd.Printf("  Dimensions: %d\n\n", idx.Dimensions())
	} else if idx != nil {
		cmd.Println("  Empty.")
		cmd.Println()
	}

	cmd.Println("[Providers]")
	cmd.Printf("  Embedding: %s\n", providerStatus(settings.Embedding.IsConfigured(), func() error {
		svc, err := ai.CreateAndValidateEmbeddingService(settings.Embedding)
		if err != nil {
			return err
		}
		return svc.Close()
	}))
	cmd.Printf("  LLM:       %s\n", providerStatus(settings.LLM.IsConfigured(), func() error {
		svc, err := ai.CreateAndValidateLLMService(settings.LLM)
		if err != nil {
			return err
		}
		return svc.Close()
	}))

	return nil
}

// providerStatus pings a provider and renders the outcome.
func providerStatus(configured bool, ping func() error) string {
	if !configured {
		return "not configured"
	}
	if err := ping(); err != nil {
		return fmt.Sprintf("unreachable (%v)", err)
	}
	return "reachable"
}
