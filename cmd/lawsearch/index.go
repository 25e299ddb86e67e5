package lawsearch

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jkim999/lawyer-search-engine/pkg/checkpoint"
	"github.com/jkim999/lawyer-search-engine/pkg/config"
	"github.com/jkim999/lawyer-search-engine/pkg/indexer"
)

var indexCmd = &cobra.Command{
	Use:   "index [profiles.json]",
	Short: "Load profile records into the corpus",
	Long: `Load a JSON file of profile records into the corpus database.

Education lines are tokenized into degree, school, year, and honors; school
names are normalized through the alias table; and each profile's experience
section is extracted and cached for the embedding pass.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

var (
	indexEmbed         bool
	indexResume        bool
	indexCheckpointDir string
)

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().BoolVar(&indexEmbed, "embed", false, "Run the embedding pass after ingesting")
	indexCmd.Flags().BoolVar(&indexResume, "resume", false, "Resume an interrupted ingest from its checkpoint")
	indexCmd.Flags().StringVar(&indexCheckpointDir, "checkpoint-dir", "", "Directory for ingest checkpoints (default: system temp)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := buildLogger(cfg)
	eng, err := buildEngine(cfg, log, indexEmbed)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx := context.Background()
	st := eng.Store()
	if err := st.CreateIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	embedderClient, err := buildEmbedder(cfg)
	if err != nil && indexEmbed {
		return err
	}

	ix := indexer.New(st, embedderClient, log)
	if indexResume {
		mgr, err := checkpoint.NewManager(indexCheckpointDir)
		if err != nil {
			return fmt.Errorf("failed to open checkpoint directory: %w", err)
		}
		ix.SetCheckpointManager(mgr)
	}
	count, err := ix.IngestFile(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Ingested %d profile(s)\n", count)

	if indexEmbed {
		written, err := ix.EmbedPending(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Embedded %d profile(s)\n", written)
	}
	return nil
}
