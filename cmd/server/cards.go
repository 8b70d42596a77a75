package main

import (
	"fmt"
	"text/tabwriter"

	colorize "github.com/fatih/color"
	"github.com/phrazzld/tarot-api/internal/domain/tarot"
	"github.com/spf13/cobra"
)

func newCardsCmd() *cobra.Command {
	var (
		catalogPath string
		showSpreads bool
	)

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List the card catalog or the available spreads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			if showSpreads {
				for _, s := range tarot.Spreads() {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.ID, s.Name, s.CardCount, s.Description)
				}
				return nil
			}

			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			dim := colorize.New(colorize.Faint)
			for _, c := range catalog.Cards() {
				note := ""
				if !c.HasTemplate {
					note = dim.Sprintf("(uses %s)", catalog.Fallback())
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Number, c.Name, note)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "card catalog TOML file (default embedded)")
	cmd.Flags().BoolVar(&showSpreads, "spreads", false, "list spreads instead of cards")
	return cmd
}
