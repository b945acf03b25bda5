package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adalundhe/trailhead/agents/curator"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the towns in the catalog",
	Long: `Print every town in the catalog, ascending by name.

Examples:
  trailhead list
  trailhead list --json | jq '.[].name'`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Emit full records as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.close()

	if listJSON {
		records, err := rt.store.ListAll(ctx)
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	records, err := rt.store.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("The catalog is empty.")
		return nil
	}
	for i, record := range records {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(curator.FormatDetails(&record))
	}
	return nil
}
