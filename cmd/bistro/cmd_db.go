package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neubistro/bistro/database/seeders"
	"github.com/neubistro/bistro/pkg/app"
	"github.com/neubistro/bistro/pkg/database"
	"github.com/neubistro/bistro/pkg/migration"
)

// bistro migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(cmd.Context()); err != nil {
			return err
		}
		defer app.Shutdown()

		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations...")
		return migration.New(database.DB, cmd.OutOrStdout()).Run(cmd.Context())
	},
}

// bistro migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(cmd.Context()); err != nil {
			return err
		}
		defer app.Shutdown()

		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch...")
		return migration.New(database.DB, cmd.OutOrStdout()).Rollback(cmd.Context())
	},
}

// bistro migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(cmd.Context()); err != nil {
			return err
		}
		defer app.Shutdown()

		return migration.New(database.DB, cmd.OutOrStdout()).Status(cmd.Context())
	},
}

// bistro seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(cmd.Context()); err != nil {
			return err
		}
		defer app.Shutdown()

		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders...")
		return seeders.RunAll(cmd.Context(), database.DB, cmd.OutOrStdout())
	},
}
