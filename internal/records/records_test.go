package records

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/z3c0/vistos-legacy/internal/components/failure"
	"github.com/z3c0/vistos-legacy/internal/congress"

	"github.com/stretchr/testify/require"
)

func mustTerm(t *testing.T, f TermFields) TermRecord {
	t.Helper()
	term, err := NewTerm(f)
	require.NoError(t, err)
	return term
}

func TestNewTermRejectsMalformedShapes(t *testing.T) {
	table := []struct {
		name   string
		fields TermFields
	}{
		{name: "negative congress", fields: TermFields{Congress: -1, StartYear: 2019, Chamber: ChamberSenate}},
		{name: "no start year", fields: TermFields{Congress: 116, Chamber: ChamberSenate}},
		{name: "ends before start", fields: TermFields{Congress: 116, StartYear: 2019, EndYear: 2017, Chamber: ChamberSenate}},
		{name: "unknown chamber", fields: TermFields{Congress: 116, StartYear: 2019, Chamber: "parliament"}},
		{name: "senate speaker", fields: TermFields{Congress: 116, StartYear: 2019, Chamber: ChamberSenate, HouseSpeaker: true}},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			_, err := NewTerm(row.fields)
			require.Error(t, err)
			require.True(t, failure.Is(err, failure.KindShape))
		})
	}
}

func TestChamberOf(t *testing.T) {
	table := []struct {
		position string
		chamber  Chamber
		ok       bool
	}{
		{position: "Senator", chamber: ChamberSenate, ok: true},
		{position: "representative", chamber: ChamberHouse, ok: true},
		{position: "Delegate", chamber: ChamberHouse, ok: true},
		{position: "Resident Commissioner", chamber: ChamberHouse, ok: true},
		{position: "speaker of the house", chamber: ChamberHouse, ok: true},
		{position: "ContCong", chamber: ChamberContinental, ok: true},
		{position: "President"},
		{position: "vice president"},
	}
	for _, row := range table {
		chamber, ok := ChamberOf(row.position)
		require.Equal(t, row.ok, ok, row.position)
		require.Equal(t, row.chamber, chamber, row.position)
	}
}

func TestNewMember(t *testing.T) {
	senate114 := mustTerm(t, TermFields{Congress: 114, StartYear: 2015, EndYear: 2017, Chamber: ChamberSenate, State: "KY", Position: "senator"})
	senate116 := mustTerm(t, TermFields{Congress: 116, StartYear: 2019, EndYear: 2021, Chamber: ChamberSenate, State: "KY", Position: "senator"})
	fields := MemberFields{Identifier: "M000355", FullName: "MCCONNELL, Addison Mitchell (Mitch)", LastName: "McConnell"}

	member, err := NewMember(fields, []TermRecord{senate116, senate114})
	require.NoError(t, err)
	terms := member.Terms()
	require.Len(t, terms, 2)
	require.Equal(t, 114, terms[0].Congress())
	require.Equal(t, 116, terms[1].Congress())
	require.Equal(t, 116, member.LatestTerm().Congress())

	// the returned slice is a copy
	terms[0] = senate116
	require.Equal(t, 114, member.Terms()[0].Congress())

	_, err = NewMember(fields, nil)
	require.True(t, failure.Is(err, failure.KindShape))

	_, err = NewMember(fields, []TermRecord{senate114, senate114})
	require.True(t, failure.Is(err, failure.KindShape))

	bad := fields
	bad.Identifier = "m355"
	_, err = NewMember(bad, []TermRecord{senate114})
	require.True(t, failure.Is(err, failure.KindShape))

	nameless := MemberFields{Identifier: "M000355"}
	_, err = NewMember(nameless, []TermRecord{senate114})
	require.True(t, failure.Is(err, failure.KindShape))
}

func TestNewCongressRejectsDuplicateMembers(t *testing.T) {
	term := mustTerm(t, TermFields{Congress: 116, StartYear: 2019, Chamber: ChamberHouse})
	a, err := NewMember(MemberFields{Identifier: "A000001", LastName: "Able"}, []TermRecord{term})
	require.NoError(t, err)
	b, err := NewMember(MemberFields{Identifier: "B000002", LastName: "Baker"}, []TermRecord{term})
	require.NoError(t, err)

	identity := congress.Identity{Number: 116, StartYear: 2019, EndYear: 2021}
	c, err := NewCongress(identity, []MemberRecord{a, b})
	require.NoError(t, err)
	found, ok := c.Member("B000002")
	require.True(t, ok)
	require.Equal(t, "Baker", found.LastName())
	_, ok = c.Member("C000003")
	require.False(t, ok)

	_, err = NewCongress(identity, []MemberRecord{a, b, a})
	require.True(t, failure.Is(err, failure.KindShape))

	_, err = NewCongress(congress.Identity{Number: 116, StartYear: 2021, EndYear: 2019}, nil)
	require.True(t, failure.Is(err, failure.KindShape))
}

func TestMemberJSONFieldNames(t *testing.T) {
	term := mustTerm(t, TermFields{Congress: 116, StartYear: 2019, Chamber: ChamberHouse, State: "CA", Party: "democrat", Position: "representative", HouseSpeaker: true})
	member, err := NewMember(MemberFields{Identifier: "P000197", FullName: "PELOSI, Nancy", FirstName: "Nancy", LastName: "Pelosi", BirthYear: "1940"}, []TermRecord{term})
	require.NoError(t, err)

	encoded, err := json.Marshal(member)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"identifier": "P000197",
		"full_name": "PELOSI, Nancy",
		"first_name": "Nancy",
		"middle_name": null,
		"nickname": null,
		"last_name": "Pelosi",
		"suffix": null,
		"birth_year": "1940",
		"death_year": null,
		"biography_text": null,
		"terms": [{
			"congress_number": 116,
			"term_start_year": 2019,
			"term_end_year": null,
			"chamber": "house",
			"state": "CA",
			"party": "democrat",
			"position": "representative",
			"house_speaker": true
		}]
	}`, string(encoded))

	var decoded MemberRecord
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, member, decoded)
}

func TestUnmarshalValidates(t *testing.T) {
	var member MemberRecord
	err := json.Unmarshal([]byte(`{"identifier": "nope", "last_name": "X", "terms": []}`), &member)
	require.True(t, failure.Is(err, failure.KindShape))
}

func TestParseYear(t *testing.T) {
	table := []struct {
		input string
		year  int
		ok    bool
	}{
		{input: "1940", year: 1940, ok: true},
		{input: " c. 1740", year: 1740, ok: true},
		{input: "1801?", year: 1801, ok: true},
		{input: "", ok: false},
		{input: "12", ok: false},
	}
	for _, row := range table {
		year, ok := ParseYear(row.input)
		require.Equal(t, row.ok, ok, row.input)
		require.Equal(t, row.year, year, row.input)
	}
}

func TestPendingLoad(t *testing.T) {
	calls := 0
	pending := Defer("congress 116", func(ctx context.Context) (int, error) {
		calls++
		return 116, nil
	})
	require.Equal(t, "congress 116", pending.Query())
	require.Equal(t, 0, calls)

	loaded, err := pending.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 116, loaded.Data())
	require.Equal(t, 1, calls)

	failing := Defer("broken", func(ctx context.Context) (int, error) {
		return 0, errors.New("boom")
	})
	_, err = failing.Load(context.Background())
	require.Error(t, err)

	_, err = Pending[int]{}.Load(context.Background())
	require.Error(t, err)

	require.Equal(t, "x", Ready("q", "x").Data())
}
