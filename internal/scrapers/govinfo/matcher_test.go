package govinfo

import (
	"testing"

	"github.com/z3c0/vistos-legacy/internal/records"

	"github.com/stretchr/testify/require"
)

func entryFor(name, id string) Entry {
	return Entry{
		GranuleClass:    classMemberState,
		SubGranuleClass: subClassRepresentative,
		Members:         []EntryMember{{MemberName: name, BioGuideId: id}},
	}
}

func TestBioguideMatcher(t *testing.T) {
	m := mcconnell(t, 115)

	require.True(t, BioguideMatcher{}.Match(m, entryFor("McConnell, Mitch", "M000355")))
	require.False(t, BioguideMatcher{}.Match(m, entryFor("McConnell, Mitch", "")))
	require.False(t, BioguideMatcher{}.Match(m, entryFor("Paul, Rand", "P000603")))
	require.False(t, BioguideMatcher{}.Match(m, Entry{}))
}

func TestNameMatcher(t *testing.T) {
	m := mcconnell(t, 115)

	cases := []struct {
		name  string
		match bool
	}{
		{"McConnell, Mitch", true},
		{"MCCONNELL, Addison Mitchell", true},
		{"McConnell, A. Mitchell", true},
		{"Paul, Rand", false},
		{"", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.match, NameMatcher{}.Match(m, entryFor(c.name, "")))
		})
	}

	require.False(t, NameMatcher{Threshold: 0.999}.Match(m, entryFor("McConnel, Mitch", "")))
}

func TestFirstMatcher(t *testing.T) {
	m := massie(t)

	require.False(t, FirstMatcher{}.Match(m, entryFor("Massie, Thomas", "")))
	require.False(t, FirstMatcher{BioguideMatcher{}}.Match(m, entryFor("Massie, Thomas", "")))
	require.True(t, FirstMatcher{BioguideMatcher{}, NameMatcher{}}.Match(m, entryFor("Massie, Thomas", "")))
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "mcconnell mitch", normalizeName("McConnell, Mitch"))
	require.Equal(t, "o rourke beto", normalizeName("  O'Rourke,  Beto "))
	require.Equal(t, "", normalizeName(" ,. "))
}

func TestIsMemberEntry(t *testing.T) {
	require.True(t, entryFor("a", "").IsMemberEntry())
	require.False(t, Entry{GranuleClass: classMemberState, SubGranuleClass: "COMMITTEE"}.IsMemberEntry())
	require.False(t, Entry{GranuleClass: "STATISTICALINFORMATION", SubGranuleClass: subClassSenator}.IsMemberEntry())
}

func TestRawEntriesResidentCommissioner(t *testing.T) {
	e := Entry{
		GranuleClass:    classMemberState,
		SubGranuleClass: subClassResidentCommissioner,
		Members: []EntryMember{
			{MemberName: "González-Colón, Jenniffer", BioGuideId: "G000582", Party: "R", State: "pr"},
			{MemberName: "Unlisted", Party: "D"},
			{MemberName: "Typo, Id", BioGuideId: "g582", Party: "D"},
		},
	}
	raw := e.RawEntries(identity(t, 115))
	require.Len(t, raw, 1)
	require.Equal(t, "resident commissioner", raw[0].Position)
	require.Equal(t, "PR", raw[0].State)
	require.Equal(t, "González-Colón", raw[0].LastName)
	require.Equal(t, "Jenniffer", raw[0].FirstName)

	_, ok := records.ChamberOf(raw[0].Position)
	require.True(t, ok)
}
