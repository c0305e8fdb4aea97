package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the corpus",
	Long: `Reads each file, splits it into overlapping fragments, embeds them and
adds them to the vector index. Supported kinds: plain text (txt, log,
csv, json, yaml, toml), Markdown (md) and Word documents (docx).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the vector index from stored fragments",
	Long: `Reconstructs the vector index from the fragment vectors kept in the
document store. No re-embedding happens; use this when the on-disk
index snapshot is lost or corrupted.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(rebuildCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := initPipeline(ctx); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var failed int
	for _, path := range args {
		result, err := ingestService.IngestFile(ctx, path)
		if err != nil {
			cmd.PrintErrf("Failed to ingest %s: %v\n", path, err)
			failed++
			continue
		}
		cmd.Printf("Ingested %s (%d fragments)\n", result.Document.Title, result.Fragments)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	if err := initPipeline(ctx); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if err := ingestService.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	cmd.Println("Vector index rebuilt.")
	return nil
}
