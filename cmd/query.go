package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adalundhe/trailhead/agents/curator"
	"github.com/adalundhe/trailhead/core/catalog"
)

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a guarded SQL query against the catalog",
	Long: `Run an operator-supplied SQL statement. The statement is classified
for safety before execution; writes run in a transaction and roll back
on any fault.

Examples:
  trailhead query "SELECT name FROM locations"
  trailhead query "SELECT activity_type, score FROM activity_scores WHERE score > 90"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx, true)
	if err != nil {
		return err
	}
	defer rt.close()

	agent := curator.New(curator.Config{
		Store:    catalog.NewStore(rt.pool),
		Provider: rt.provider,
		Logger:   rt.logger,
	})
	result, err := agent.ExecuteQuery(ctx, rt.pool, args[0])
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}
