package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adalundhe/trailhead/agents/scout"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a town to add next",
	Long: `Ask the research agent for one town not already in the catalog.

Example:
  trailhead suggest`,
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx, true)
	if err != nil {
		return err
	}
	defer rt.close()

	known, err := rt.store.ListNames(ctx)
	if err != nil {
		return err
	}

	agent := scout.New(scout.Config{
		Provider: rt.provider,
		Names:    rt.store,
		Logger:   rt.logger,
	})
	name, err := agent.SuggestName(ctx, known)
	if err != nil {
		return err
	}
	fmt.Println(name)
	return nil
}
