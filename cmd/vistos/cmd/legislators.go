package cmd

import (
	"github.com/spf13/cobra"
	"github.com/z3c0/vistos-legacy/internal/scrapers/propublica"
)

var legislatorsChamber string

func init() {
	rootCmd.AddCommand(legislatorsCmd)
	legislatorsCmd.Flags().StringVar(&legislatorsChamber, "chamber", "senate", "senate or house")
}

var legislatorsCmd = &cobra.Command{
	Use:   "legislators [congress or year]",
	Short: "Prints the members of a chamber according to the ProPublica congress API.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := selector(args)
		if err != nil {
			return err
		}
		chamber, err := propublica.ParseChamber(legislatorsChamber)
		if err != nil {
			return err
		}
		members, err := app.service.LegislativeMembers(cmd.Context(), sel, chamber)
		if err != nil {
			return err
		}
		if app.store != nil {
			err := app.store.SaveMembers(cmd.Context(), members)
			if err != nil {
				return err
			}
		}
		return printMembers(members)
	},
}
