package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/stock-analyzer/internal/store"
)

// migrateCmd applies the database schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Creates the analyzer tables if they do not exist. Idempotent;
safe to run before every analysis.

Example:
  go run ./cmd/analyzer migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := store.Migrate(ctx, a.db.Pool); err != nil {
		return err
	}

	fmt.Println("schema up to date")
	return nil
}
