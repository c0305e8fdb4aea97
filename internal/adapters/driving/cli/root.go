// Package cli implements the askdoc command-line interface. Commands
// are thin adapters: they parse flags, wire the services they need, and
// format output. All behaviour lives in the core services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/core/services"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
	"github.com/custodia-labs/askdoc-cli/internal/normalisers"
	"github.com/custodia-labs/askdoc-cli/internal/postprocessors/chunker"
)

// version is set at build time via -ldflags.
var version = "dev"

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Ask questions about your documents",
	Long: `askdoc ingests local documents, indexes them with vector embeddings,
and answers natural-language questions grounded in their content.
Answers cite their sources with [Source N] markers.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package-level services, wired lazily per command. Tests replace these
// with mocks.
var (
	settingsStore  driven.SettingsStore
	appSettings    *domain.Settings
	docStore       driven.DocumentStore
	conversations  driven.ConversationStore
	vectorIndex    *flat.Index
	askService     driving.AskService
	ingestService  driving.IngestService
	sessionService driving.SessionService
)

// initSettings loads and validates the configuration. Idempotent.
func initSettings() (*domain.Settings, error) {
	if appSettings != nil {
		return appSettings, nil
	}

	if settingsStore == nil {
		store, err := file.NewSettingsStore("")
		if err != nil {
			return nil, fmt.Errorf("opening settings: %w", err)
		}
		settingsStore = store
	}

	settings, err := settingsStore.Load()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	appSettings = settings
	return settings, nil
}

// dataDir returns the root directory for persisted state.
func dataDir(settings *domain.Settings) (string, error) {
	if settings.DataDir != "" {
		return settings.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".askdoc"), nil
}

// initCorpus opens the document and conversation stores. Idempotent.
func initCorpus() error {
	if docStore != nil && conversations != nil {
		return nil
	}

	settings, err := initSettings()
	if err != nil {
		return err
	}
	dir, err := dataDir(settings)
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return fmt.Errorf("opening corpus store: %w", err)
	}
	if docStore == nil {
		docStore = store
	}
	if conversations == nil {
		conversations = sqlite.NewConversationStore(store, settings.Memory.MaxHistory)
	}
	return nil
}

// initPipeline wires the full ask/ingest pipeline: AI providers, vector
// index and core services. Provider connectivity is validated up front
// so failures surface before any work is done. Idempotent.
func initPipeline(ctx context.Context) error {
	if askService != nil && ingestService != nil {
		return nil
	}

	settings, err := initSettings()
	if err != nil {
		return err
	}
	if err := initCorpus(); err != nil {
		return err
	}
	dir, err := dataDir(settings)
	if err != nil {
		return err
	}
	indexPath := filepath.Join(dir, "index.json")

	logger.Section("Providers")
	embedding, err := ai.CreateAndValidateEmbeddingService(settings.Embedding)
	if err != nil {
		return err
	}
	llm, err := ai.CreateAndValidateLLMService(settings.LLM)
	if err != nil {
		embedding.Close() //nolint:errcheck // already failing
		return err
	}
	logger.Debug("embedding model: %s (%d dimensions)", embedding.ModelName(), embedding.Dimensions())
	logger.Debug("LLM model: %s", llm.ModelName())

	flatIdx := flat.New()
	if err := flatIdx.Load(indexPath); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("loading vector index: %w", err)
	}

	index, err := services.NewIndex(flatIdx, embedding)
	if err != nil {
		return err
	}

	fragmenter := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)

	ingest := services.NewIngestService(index, docStore, fragmenter, normalisers.All(), indexPath)

	// No snapshot on disk; reconstruct the index from the stored
	// fragment vectors.
	if flatIdx.Len() == 0 {
		if err := ingest.Rebuild(ctx); err != nil {
			logger.Warn("rebuilding vector index: %v", err)
		}
	}

	rewriter := services.NewQueryRewriter(llm)
	synthesizer := services.NewSynthesizer(llm)

	vectorIndex = flatIdx
	ingestService = ingest
	askService = services.NewAskService(index, rewriter, synthesizer, conversations, *settings)
	return nil
}

// initSessions wires the session service. Idempotent.
func initSessions() error {
	if sessionService != nil {
		return nil
	}
	if err := initCorpus(); err != nil {
		return err
	}
	sessionService = services.NewSessionService(conversations)
	return nil
}
