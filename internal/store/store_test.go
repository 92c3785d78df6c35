package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/records"

	"github.com/stretchr/testify/require"
)

func member(t *testing.T, fields records.MemberFields, terms ...records.TermFields) records.MemberRecord {
	t.Helper()
	var built []records.TermRecord
	for _, f := range terms {
		term, err := records.NewTerm(f)
		require.NoError(t, err)
		built = append(built, term)
	}
	m, err := records.NewMember(fields, built)
	require.NoError(t, err)
	return m
}

func senate(n int) records.TermFields {
	return records.TermFields{
		Congress:  n,
		StartYear: congress.StartYear(n),
		EndYear:   congress.EndYear(n),
		Chamber:   records.ChamberSenate,
		State:     "KY",
		Party:     "republican",
		Position:  "senator",
	}
}

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vistos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMemberRoundTrip(t *testing.T) {
	s := open(t)
	ctx := context.Background()

	speaker := records.TermFields{
		Congress:     116,
		StartYear:    2019,
		Chamber:      records.ChamberHouse,
		State:        "CA",
		Party:        "democrat",
		Position:     "representative",
		HouseSpeaker: true,
	}
	pelosi := member(t, records.MemberFields{
		Identifier: "P000197",
		FullName:   "PELOSI, Nancy",
		FirstName:  "Nancy",
		LastName:   "Pelosi",
		BirthYear:  "1940",
	}, speaker)

	require.NoError(t, s.SaveMembers(ctx, []records.MemberRecord{pelosi}))

	got, ok, err := s.Member(ctx, "P000197")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, pelosi.Fields(), got.Fields())
	require.Equal(t, []records.TermFields{speaker}, []records.TermFields{got.LatestTerm().Fields()})

	_, ok, err = s.Member(ctx, "X000001")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSaveMembersMergesTerms(t *testing.T) {
	s := open(t)
	ctx := context.Background()

	first := member(t, records.MemberFields{
		Identifier: "M000355",
		FullName:   "MCCONNELL, Mitch",
		LastName:   "McConnell",
		Biography:  "A Senator from Kentucky",
	}, senate(114))
	second := member(t, records.MemberFields{
		Identifier: "M000355",
		FullName:   "McConnell, Addison Mitchell",
		LastName:   "McConnell",
	}, senate(116))

	require.NoError(t, s.SaveMembers(ctx, []records.MemberRecord{first}))
	require.NoError(t, s.SaveMembers(ctx, []records.MemberRecord{second}))

	got, ok, err := s.Member(ctx, "M000355")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "McConnell, Addison Mitchell", got.FullName())
	require.Equal(t, "A Senator from Kentucky", got.Biography())

	var congresses []int
	for _, term := range got.Terms() {
		congresses = append(congresses, term.Congress())
	}
	require.Equal(t, []int{114, 116}, congresses)
}

func TestCongressRoundTrip(t *testing.T) {
	s := open(t)
	ctx := context.Background()

	identity := congress.Identity{Number: 116, StartYear: 2019, EndYear: 2021}
	record, err := records.NewCongress(identity, []records.MemberRecord{
		member(t, records.MemberFields{Identifier: "S000033", LastName: "Sanders"}, senate(116)),
		member(t, records.MemberFields{Identifier: "M000355", LastName: "McConnell"}, senate(116)),
	})
	require.NoError(t, err)
	require.NoError(t, s.SaveCongress(ctx, record))
	// saving again replaces the member list instead of duplicating it
	require.NoError(t, s.SaveCongress(ctx, record))

	got, ok, err := s.Congress(ctx, 116)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, identity, got.Identity())

	var ids []string
	for _, m := range got.Members() {
		ids = append(ids, m.Identifier())
	}
	require.Equal(t, []string{"S000033", "M000355"}, ids)

	_, ok, err = s.Congress(ctx, 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveMembers(context.Background(), []records.MemberRecord{
		member(t, records.MemberFields{Identifier: "S000033", LastName: "Sanders"}, senate(110)),
	}))
	_, ok, err := s.Member(context.Background(), "S000033")
	require.NoError(t, err)
	require.True(t, ok)
}
