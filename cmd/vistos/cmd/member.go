package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/z3c0/vistos-legacy/internal/records"
	"github.com/z3c0/vistos-legacy/internal/scrapers/govinfo"
)

func init() {
	rootCmd.AddCommand(memberCmd)
}

var memberCmd = &cobra.Command{
	Use:   "member <bioguide id>",
	Short: "Prints a member's biography, term history and directory entry.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.ToUpper(strings.TrimSpace(args[0]))
		profile, found, err := app.service.Profile(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no member %s in the biographical directory", id)
		}
		if app.store != nil {
			err := app.store.SaveMembers(cmd.Context(), []records.MemberRecord{profile.Member})
			if err != nil {
				return err
			}
		}

		if jsonOutput {
			return printJSON(profile)
		}
		printTerms(profile.Member)
		if profile.Directory != nil {
			fmt.Println()
			printEntries([]govinfo.Entry{*profile.Directory})
		}
		return nil
	},
}
