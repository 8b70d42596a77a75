package main

import (
	"fmt"
	"strings"

	"github.com/phrazzld/tarot-api/internal/platform/migrate"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [" + strings.Join(migrate.Commands, "|") + "]",
		Short: "Manage the database schema",
		Long: `migrate applies or rolls back schema migrations for the configured
database driver, or reports the current migration state.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrate.Commands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.loadConfig()
			if err != nil {
				return err
			}

			db, err := openDatabase(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.close(log)

			if err := db.migrate(cmd.Context(), args[0], log); err != nil {
				return fmt.Errorf("migration %s failed: %w", args[0], err)
			}
			return nil
		},
	}
}
