package lawsearch

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jkim999/lawyer-search-engine/pkg/config"
	"github.com/jkim999/lawyer-search-engine/pkg/indexer"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Compute vectors for profiles that have none",
	Long: `Run the offline embedding pass: every cached experience text without a
stored vector is embedded and persisted. Semantic queries fail with a
not-ready error until this has run at least once.`,
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := buildLogger(cfg)
	eng, err := buildEngine(cfg, log, false)
	if err != nil {
		return err
	}
	defer eng.Close()

	embedderClient, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	ix := indexer.New(eng.Store(), embedderClient, log)
	written, err := ix.EmbedPending(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Embedded %d profile(s)\n", written)
	return nil
}
