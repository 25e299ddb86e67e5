package lawsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	engine "github.com/jkim999/lawyer-search-engine"
	"github.com/jkim999/lawyer-search-engine/pkg/config"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Resolve a natural-language query against the corpus",
	Long: `Resolve a query end to end and print the matching lawyers.

Structured queries run against the attribute tables; semantic queries run
embedding retrieval plus LLM judging and need model credentials configured.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchLimit   int
	searchFormat  string
	searchWhy     bool
	searchNoCache bool
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of results (0 = all)")
	searchCmd.Flags().StringVar(&searchFormat, "format", "table", "Output format (table, json)")
	searchCmd.Flags().BoolVar(&searchWhy, "why", false, "Show why each result matched (SQL plan or judge rationale)")
	searchCmd.Flags().BoolVar(&searchNoCache, "no-cache", false, "Bypass the result cache")
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	queryText := strings.Join(args, " ")
	result, err := eng.Search(context.Background(), queryText, &engine.SearchOptions{
		Limit:       searchLimit,
		Explain:     searchWhy,
		BypassCache: searchNoCache,
	})
	if err != nil {
		return err
	}

	switch searchFormat {
	case "json":
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		printResultTable(result)
	}
	return nil
}

func printResultTable(result *engine.Result) {
	fmt.Printf("Strategy: %s", result.Strategy)
	if result.CacheHit {
		fmt.Printf(" (cached)")
	}
	fmt.Printf("  %d result(s) in %s\n\n", len(result.Matches), result.Elapsed.Round(1e6))

	if len(result.Matches) == 0 {
		fmt.Println("No matches.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tURL")
	for _, m := range result.Matches {
		fmt.Fprintf(w, "%s\t%s\n", m.Ref.DisplayName, m.Ref.SourceURL)
		if searchWhy && m.Rationale != "" {
			fmt.Fprintf(w, "  %s\t\n", m.Rationale)
		}
	}
	w.Flush()

	if searchWhy && result.Explain != "" {
		fmt.Printf("\nQuery plan:\n%s", result.Explain)
	}
}
