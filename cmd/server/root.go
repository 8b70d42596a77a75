package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/tarot-api/internal/config"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tarot",
		Short: "Tarot reading API server and tools",
		Long: `tarot serves the tarot reading API: card draws, the daily fortune,
saved readings and the journal. The subcommands also manage the database
schema, mint development tokens and draw readings locally.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"config file (default ./config.yaml when present)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newTokenCmd(opts),
		newDrawCmd(),
		newCardsCmd(),
	)
	return cmd
}

// loadConfig loads configuration and sets up the default logger from it.
func (o *rootOptions) loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))

	return cfg, log, nil
}
