package lawsearch

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jkim999/lawyer-search-engine/pkg/config"
)

var warmCmd = &cobra.Command{
	Use:   "warm [queries.txt]",
	Short: "Pre-resolve a list of queries to warm the result cache",
	Long: `Read queries from a file (one per line) and resolve each, populating the
result cache. Useful before demos or after a re-index, when every cached
entry has been invalidated.`,
	Args: cobra.ExactArgs(1),
	RunE: runWarm,
}

func init() {
	rootCmd.AddCommand(warmCmd)
}

func runWarm(cmd *cobra.Command, args []string) error {
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

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	ctx := context.Background()
	warmed, failed := 0, 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		queryText := scanner.Text()
		if queryText == "" {
			continue
		}
		if _, err := eng.Search(ctx, queryText, nil); err != nil {
			log.Warn("failed to warm query", "query", queryText, "error", err)
			failed++
			continue
		}
		warmed++
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("Warmed %d quer(ies), %d failed\n", warmed, failed)
	return nil
}
