package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [congress or year]",
	Short: "Prints the congress a number or year refers to, the active congress by default.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := selector(args)
		if err != nil {
			return err
		}
		identity, err := app.service.Resolve(sel)
		if err != nil {
			return err
		}
		return printIdentities(identity)
	},
}
