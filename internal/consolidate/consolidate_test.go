package consolidate

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/z3c0/vistos-legacy/internal/components/failure"
	"github.com/z3c0/vistos-legacy/internal/components/telemetry"
	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/records"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func entry(id string, n int, position, party, state string) records.RawEntry {
	return records.RawEntry{
		Source:     records.SourceBioguide,
		Identifier: id,
		FullName:   id + " FULL",
		LastName:   id,
		Position:   position,
		Party:      party,
		State:      state,
		Congress:   n,
		TermStart:  congress.StartYear(n),
		TermEnd:    congress.EndYear(n),
	}
}

type memberSummary struct {
	Fields records.MemberFields
	Terms  []records.TermFields
}

func summarize(members []records.MemberRecord) []memberSummary {
	var out []memberSummary
	for _, m := range members {
		s := memberSummary{Fields: m.Fields()}
		for _, t := range m.Terms() {
			s.Terms = append(s.Terms, t.Fields())
		}
		out = append(out, s)
	}
	return out
}

func byIdentifier(members []records.MemberRecord) map[string][]records.TermFields {
	out := map[string][]records.TermFields{}
	for _, s := range summarize(members) {
		out[s.Fields.Identifier] = s.Terms
	}
	return out
}

func fixtureEntries() []records.RawEntry {
	speaker := entry("P000197", 116, "Speaker of the House", "democrat", "CA")
	speaker.TermStart = 2019
	return []records.RawEntry{
		entry("M000355", 116, "Senator", "republican", "ky"),
		entry("P000197", 116, "representative", "democrat", "CA"),
		entry("M000355", 114, "senator", "republican", "KY"),
		speaker,
		entry("W000178", 1, "president", "", ""),
		entry("", 116, "representative", "democrat", "NY"),
		entry("S000033", 110, "senator", "independent", "VT"),
		entry("S000033", 101, "representative", "independent", "VT"),
		entry("S000033", 110, "senator", "", "VT"),
		entry("A000001", 0, "ContCong", "", "VA"),
	}
}

func TestMembersAcrossTerms(t *testing.T) {
	members, err := Members([]records.RawEntry{
		entry("M000355", 116, "senator", "republican", "KY"),
		entry("M000355", 114, "senator", "republican", "KY"),
	})
	require.NoError(t, err)
	require.Len(t, members, 1)

	terms := members[0].Terms()
	require.Len(t, terms, 2)
	require.Equal(t, 114, terms[0].Congress())
	require.Equal(t, 116, terms[1].Congress())
}

func TestMembers(t *testing.T) {
	members, err := Members(fixtureEntries())
	require.NoError(t, err)

	var ids []string
	for _, m := range members {
		ids = append(ids, m.Identifier())
	}
	// first encounter order, the president and the entry without identifier are dropped
	require.Equal(t, []string{"M000355", "P000197", "S000033", "A000001"}, ids)

	pelosi := byIdentifier(members)["P000197"]
	require.Equal(t, []records.TermFields{{
		Congress:     116,
		StartYear:    2019,
		EndYear:      2021,
		Chamber:      records.ChamberHouse,
		State:        "CA",
		Party:        "democrat",
		Position:     "representative",
		HouseSpeaker: true,
	}}, pelosi)

	sanders := byIdentifier(members)["S000033"]
	require.Len(t, sanders, 2)
	require.Equal(t, records.ChamberHouse, sanders[0].Chamber)
	require.Equal(t, "independent", sanders[1].Party)

	continental := byIdentifier(members)["A000001"]
	require.Equal(t, records.ChamberContinental, continental[0].Chamber)
	require.Equal(t, 1786, continental[0].StartYear)
}

func TestMembersFillsBlankFields(t *testing.T) {
	first := entry("M000355", 114, "senator", "republican", "KY")
	second := entry("M000355", 116, "senator", "republican", "KY")
	first.FullName = "MCCONNELL, Mitch"
	second.FullName = "McConnell, Addison Mitchell"
	second.Biography = "A Senator from Kentucky"
	second.BirthYear = "1942"

	members, err := Members([]records.RawEntry{first, second})
	require.NoError(t, err)
	f := members[0].Fields()
	require.Equal(t, "MCCONNELL, Mitch", f.FullName)
	require.Equal(t, "A Senator from Kentucky", f.Biography)
	require.Equal(t, "1942", f.BirthYear)
}

func TestMembersIdempotent(t *testing.T) {
	once, err := Members(fixtureEntries())
	require.NoError(t, err)
	twice, err := Members(Flatten(once))
	require.NoError(t, err)

	if diff := cmp.Diff(summarize(once), summarize(twice)); diff != "" {
		t.Fatalf("re-consolidating changed members (-once +twice):\n%s", diff)
	}
}

func TestMembersCommutative(t *testing.T) {
	want, err := Members(fixtureEntries())
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		entries := fixtureEntries()
		rng.Shuffle(len(entries), func(a, b int) {
			entries[a], entries[b] = entries[b], entries[a]
		})
		got, err := Members(entries)
		require.NoError(t, err)

		if diff := cmp.Diff(byIdentifier(want), byIdentifier(got)); diff != "" {
			t.Fatalf("permutation %d changed terms (-want +got):\n%s", i, diff)
		}
	}
}

func TestMembersUnique(t *testing.T) {
	var entries []records.RawEntry
	ids := []string{"A000001", "B000002", "C000003"}
	for n := 100; n < 120; n++ {
		for _, id := range ids {
			entries = append(entries, entry(id, n, "representative", "democrat", "OH"))
			entries = append(entries, entry(id, n, "senator", "democrat", "OH"))
		}
	}

	members, err := Members(entries)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, m := range members {
		require.False(t, seen[m.Identifier()], m.Identifier())
		seen[m.Identifier()] = true
		require.Len(t, m.Terms(), 40)
	}
	require.Len(t, seen, len(ids))
}

func TestMergeConflicts(t *testing.T) {
	a := entry("S000033", 110, "senator", "independent", "VT")
	b := entry("S000033", 110, "senator", "democrat", "VT")
	b.TermStart = 2008
	b.TermEnd = 2009

	ab, err := Members([]records.RawEntry{a, b})
	require.NoError(t, err)
	ba, err := Members([]records.RawEntry{b, a})
	require.NoError(t, err)

	require.Equal(t, byIdentifier(ab), byIdentifier(ba))
	term := byIdentifier(ab)["S000033"][0]
	require.Equal(t, "democrat", term.Party)
	require.Equal(t, 2007, term.StartYear)
	require.Equal(t, 2009, term.EndYear)
}

func TestMembersRejectsMalformedIdentifier(t *testing.T) {
	members, err := Members([]records.RawEntry{entry("nope", 110, "senator", "", "VT")})
	require.Empty(t, members)

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	require.Len(t, rejected.Rejections, 1)
	require.Equal(t, "nope", rejected.Rejections[0].Identifier)
	require.True(t, failure.Is(err, failure.KindShape))
}

type warnings struct {
	telemetry.NoopAPI
	ids []string
}

func (w *warnings) ReportWarning(id string, params ...any) {
	w.ids = append(w.ids, fmt.Sprint(append([]any{id}, params...)...))
}

func TestMembersKeepsValidMembersNextToNameless(t *testing.T) {
	nameless := entry("X000001", 116, "representative", "", "TX")
	nameless.FullName = ""
	nameless.LastName = ""

	entries := []records.RawEntry{
		entry("M000355", 116, "senator", "republican", "KY"),
		nameless,
		entry("S000033", 116, "senator", "independent", "VT"),
	}

	members, err := Members(entries)
	require.Len(t, members, 2)
	require.Equal(t, "M000355", members[0].Identifier())
	require.Equal(t, "S000033", members[1].Identifier())

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, "X000001", rejected.Rejections[0].Identifier)
	require.True(t, failure.Is(err, failure.KindShape))

	record, err := Congress(congress.Identity{Number: 116, StartYear: 2019, EndYear: 2021}, entries)
	require.ErrorAs(t, err, &rejected)
	require.Len(t, record.Members(), 2)

	tel := &warnings{}
	require.NoError(t, Partial(tel, "congress", err))
	require.Len(t, tel.ids, 1)
	require.Contains(t, tel.ids[0], "X000001")

	other := failure.Validationf("test", "boom")
	require.Same(t, other, Partial(tel, "congress", other))
}

func TestMergeAcrossCongresses(t *testing.T) {
	c114, err := Congress(congress.Identity{Number: 114, StartYear: 2015, EndYear: 2017}, []records.RawEntry{
		entry("M000355", 114, "senator", "republican", "KY"),
		entry("S000033", 114, "senator", "independent", "VT"),
	})
	require.NoError(t, err)
	c116, err := Congress(congress.Identity{Number: 116, StartYear: 2019, EndYear: 2021}, []records.RawEntry{
		entry("P000197", 116, "representative", "democrat", "CA"),
		entry("M000355", 116, "senator", "republican", "KY"),
	})
	require.NoError(t, err)

	members, err := MergeAcrossCongresses([]records.CongressRecord{c116, c114})
	require.NoError(t, err)

	var ids []string
	for _, m := range members {
		ids = append(ids, m.Identifier())
	}
	require.Equal(t, []string{"P000197", "M000355", "S000033"}, ids)

	terms := byIdentifier(members)["M000355"]
	require.Len(t, terms, 2)
	require.Equal(t, 114, terms[0].Congress)
	require.Equal(t, 116, terms[1].Congress)
}
