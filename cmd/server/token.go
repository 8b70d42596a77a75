package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/service/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user ID",
		Long: `token signs an access token with the configured secret. Without --user
a fresh user ID is generated. Intended for local development.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := uuid.New()
			if user != "" {
				parsed, err := uuid.Parse(user)
				if err != nil {
					return fmt.Errorf("invalid --user %q: %w", user, err)
				}
				userID = parsed
			}

			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}

			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}
			token, err := jwtService.GenerateToken(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "user:  %s\n", userID)
			fmt.Fprintf(out, "token: %s\n", token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user ID to issue the token for")
	return cmd
}
