package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/pokedex/internal/observability"
	"github.com/jonathan/pokedex/internal/typechart"
)

var matchupCmd = &cobra.Command{
	Use:     "matchup <type> [type...]",
	Short:   "Show how every attacking type fares against a defending combination",
	Example: "  pokedex matchup fire flying",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runMatchup,
}

func init() {
	rootCmd.AddCommand(matchupCmd)
}

func runMatchup(cmd *cobra.Command, args []string) error {
	defending, err := typechart.ParseCategories(args)
	if err != nil {
		return err
	}
	profile := typechart.Standard().Effectiveness(defending)
	observability.NewPrinter(cmd.OutOrStdout()).PrintMatchup(defending, profile)
	return nil
}
