package cmd

import (
	"github.com/spf13/cobra"
	"github.com/z3c0/vistos-legacy/internal/search"
)

var (
	searchFirst    string
	searchLast     string
	searchPosition string
	searchParty    string
	searchState    string
	searchCongress int
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchFirst, "first", "", "first name prefix")
	searchCmd.Flags().StringVar(&searchLast, "last", "", "last name prefix")
	searchCmd.Flags().StringVar(&searchPosition, "position", "", "position, ex. Senator or Representative")
	searchCmd.Flags().StringVar(&searchParty, "party", "", "party, ex. Whig")
	searchCmd.Flags().StringVar(&searchState, "state", "", "state code or name")
	searchCmd.Flags().IntVar(&searchCongress, "congress", 0, "congress number")
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Searches the biographical directory.",
	Long: `Searches the biographical directory. Names are matched by prefix, at least one
criterion is required.

Examples:
  vistos search --last byrd --position senator
  vistos search --state WV --congress 110`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var congress *int
		if cmd.Flags().Changed("congress") {
			congress = &searchCongress
		}
		criteria, err := search.ParseCriteria(searchFirst, searchLast, searchPosition, searchParty, searchState, congress)
		if err != nil {
			return err
		}
		members, err := app.service.Search(cmd.Context(), criteria)
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
