package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register migrations and seeders through their init() funcs.
	_ "github.com/neubistro/bistro/database/migrations"
	_ "github.com/neubistro/bistro/database/seeders"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "bistro",
	Short:        "Campus food-ordering API",
	SilenceUsage: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
