package main

import (
	"os/signal"
	"syscall"

	"github.com/phrazzld/tarot-api/internal/platform/migrate"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `serve opens the configured database, applies pending migrations and
serves the API until SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := openDatabase(ctx, cfg.Database, log)
			if err != nil {
				return err
			}

			if !skipMigrations {
				if err := db.migrate(ctx, migrate.CommandUp, log); err != nil {
					db.close(log)
					return err
				}
			}

			app, err := newApplication(cfg, log, db, nil)
			if err != nil {
				db.close(log)
				return err
			}
			defer app.cleanup()

			return app.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
	return cmd
}
