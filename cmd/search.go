package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adalundhe/trailhead/core/search"
)

var (
	searchRebuild bool
	searchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over the catalog",
	Long: `Search town names, descriptions, and activity tags.

Examples:
  trailhead search "desert climbing"
  trailhead search --rebuild
  trailhead search --rebuild "volcanic skiing"`,
	RunE: runSearchCatalog,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchRebuild, "rebuild", false, "Reindex the catalog before searching")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
}

func runSearchCatalog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if !searchRebuild && len(args) == 0 {
		return fmt.Errorf("provide a query, --rebuild, or both")
	}

	rt, err := newRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.close()

	index, err := search.Open(rt.cfg.Search.IndexPath)
	if err != nil {
		return err
	}
	defer index.Close()

	if searchRebuild {
		count, err := index.Rebuild(ctx, rt.store)
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d location(s)\n", count)
	}

	if len(args) == 0 {
		return nil
	}

	hits, err := index.Search(ctx, args[0], searchLimit)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, hit := range hits {
		fmt.Printf("%s (%.3f)\n", hit.Name, hit.Score)
	}
	return nil
}
