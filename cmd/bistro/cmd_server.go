package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/neubistro/bistro/app/listeners"
	"github.com/neubistro/bistro/app/routes"
	"github.com/neubistro/bistro/config"
	"github.com/neubistro/bistro/pkg/app"
	"github.com/neubistro/bistro/pkg/auth"
	"github.com/neubistro/bistro/pkg/database"
	"github.com/neubistro/bistro/pkg/migration"
	"github.com/neubistro/bistro/pkg/session"
)

var serveMigrate bool

func application() *app.Application {
	signer := auth.NewSigner(config.JWTSecret(), auth.SessionTTL)
	cookie := session.OptionsFor(config.IsProduction())

	return app.New().
		Authenticator(signer, cookie).
		Routes(routes.API(routes.Deps{
			DB:           database.DB,
			Signer:       signer,
			Cookie:       cookie,
			MenuCacheTTL: config.MenuCacheTTL(),
		}))
}

// bistro serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := app.Boot(ctx, true); err != nil {
			return err
		}
		defer app.Shutdown()

		if serveMigrate {
			if err := migration.New(database.DB, cmd.OutOrStdout()).Run(ctx); err != nil {
				return err
			}
		}

		listeners.Register()
		return application().Serve(ctx)
	},
}

// bistro route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range application().RouteList() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "run pending migrations before serving")
}

func bootDB(ctx context.Context) error {
	return app.Boot(ctx, false)
}
