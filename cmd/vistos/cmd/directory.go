package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/z3c0/vistos-legacy/internal/scrapers/govinfo"
)

var directoryMembers bool

func init() {
	directoryCongressCmd.Flags().BoolVar(&directoryMembers, "members", false, "consolidate the entries into members with their terms")
	rootCmd.AddCommand(directoryCmd)
	directoryCmd.AddCommand(directoryCongressCmd)
	directoryCmd.AddCommand(directoryMemberCmd)
}

var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Reads the congressional directory published on govinfo.",
}

var directoryCongressCmd = &cobra.Command{
	Use:   "congress [congress or year]",
	Short: "Prints the directory entries of a congress.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := selector(args)
		if err != nil {
			return err
		}
		if directoryMembers {
			record, err := app.service.DirectoryMembers(cmd.Context(), sel)
			if err != nil {
				return err
			}
			err = saveCongress(cmd.Context(), record)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(record)
			}
			err = printIdentities(record.Identity())
			if err != nil {
				return err
			}
			return printMembers(record.Members())
		}

		pkg, err := app.service.CongressDirectory(cmd.Context(), sel)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(pkg)
		}
		fmt.Printf("%s (congress %d, issued %s)\n", pkg.PackageId, pkg.Identity.Number, pkg.DateIssued)
		printEntries(pkg.Entries)
		return nil
	},
}

var directoryMemberCmd = &cobra.Command{
	Use:   "member <bioguide id>",
	Short: "Finds a member's entry in the directory of their latest published congress.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.ToUpper(strings.TrimSpace(args[0]))
		member, found, err := app.service.Member(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no member %s in the biographical directory", id)
		}
		entry, found, err := app.service.MemberDirectory(cmd.Context(), member)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no directory entry matched %s, try `vistos directory congress`", id)
		}
		if jsonOutput {
			return printJSON(entry)
		}
		printEntries([]govinfo.Entry{entry})
		return nil
	},
}
