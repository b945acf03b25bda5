package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the catalog database",
	Long: `Create the catalog database file and bring its schema up to date.
Safe to run repeatedly; existing data is untouched.

Example:
  trailhead initdb`,
	RunE: runInitDB,
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}

func runInitDB(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.close()

	version, err := rt.pool.Version()
	if err != nil {
		return err
	}
	fmt.Printf("Catalog ready at %s (schema version %d)\n", rt.cfg.Database.Path, version)
	return nil
}
