package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/records"
	"github.com/z3c0/vistos-legacy/internal/scrapers/govinfo"
)

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	return t
}

func printIdentities(identities ...congress.Identity) error {
	if jsonOutput {
		if len(identities) == 1 {
			return printJSON(identities[0])
		}
		return printJSON(identities)
	}
	t := newTable()
	t.AppendHeader(table.Row{"Congress", "Start", "End"})
	for _, id := range identities {
		t.AppendRow(table.Row{id.Number, id.StartYear, id.EndYear})
	}
	t.Render()
	return nil
}

func displayName(m records.MemberRecord) string {
	if m.LastName() == "" {
		return m.FullName()
	}
	parts := []string{m.FirstName()}
	if m.Nickname() != "" {
		parts = append(parts, fmt.Sprintf("(%s)", m.Nickname()))
	}
	parts = append(parts, m.LastName())
	if m.Suffix() != "" {
		parts = append(parts, m.Suffix())
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func printMembers(members []records.MemberRecord) error {
	if jsonOutput {
		return printJSON(members)
	}
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Name", "Born", "Terms", "Latest", "Position", "Party", "State"})
	for _, m := range members {
		latest := m.LatestTerm()
		t.AppendRow(table.Row{
			m.Identifier(),
			displayName(m),
			m.BirthYear(),
			len(m.Terms()),
			latest.Congress(),
			latest.Position(),
			latest.Party(),
			latest.State(),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "Total", len(members)})
	t.Render()
	return nil
}

func printTerms(m records.MemberRecord) {
	t := newTable()
	t.SetTitle("%s (%s)", displayName(m), m.Identifier())
	t.AppendHeader(table.Row{"Congress", "Years", "Chamber", "Position", "Party", "State", "Speaker"})
	for _, term := range m.Terms() {
		years := fmt.Sprintf("%d-", term.StartYear())
		if end, ok := term.EndYear(); ok {
			years += fmt.Sprint(end)
		}
		speaker := ""
		if term.HouseSpeaker() {
			speaker = "yes"
		}
		t.AppendRow(table.Row{
			term.Congress(), years, term.Chamber(), term.Position(),
			term.Party(), term.State(), speaker,
		})
	}
	t.Render()
	if m.Biography() != "" {
		fmt.Println(m.Biography())
	}
}

func printEntries(entries []govinfo.Entry) {
	t := newTable()
	t.AppendHeader(table.Row{"Granule", "Class", "Bioguide ID", "Name", "Party", "State"})
	for _, e := range entries {
		for _, m := range e.Members {
			t.AppendRow(table.Row{e.GranuleId, e.SubGranuleClass, m.BioGuideId, m.MemberName, m.Party, m.State})
		}
	}
	t.Render()
}
