package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	table := []struct {
		input    string
		expected Position
		fails    bool
	}{
		{input: "", expected: ""},
		{input: "senator", expected: Senator},
		{input: "  Speaker of the House ", expected: SpeakerOfTheHouse},
		{input: "contcong", expected: ContinentalCongress},
		{input: "Continental Congress", expected: ContinentalCongress},
		{input: "governor", fails: true},
	}

	for _, row := range table {
		result, err := ParsePosition(row.input)
		if row.fails {
			require.Error(t, err, row.input)
			continue
		}
		require.NoError(t, err, row.input)
		require.Equal(t, row.expected, result)
	}
}

func TestParseParty(t *testing.T) {
	table := []struct {
		input    string
		expected Party
		fails    bool
	}{
		{input: "", expected: ""},
		{input: "democrat", expected: Democrat},
		{input: "Anti-administration", expected: AntiAdministrationErrata},
		{input: "anti-administration", expected: AntiAdministration},
		{input: "WHIG", expected: Whig},
		{input: "Bull Moose", fails: true},
	}

	for _, row := range table {
		result, err := ParseParty(row.input)
		if row.fails {
			require.Error(t, err, row.input)
			continue
		}
		require.NoError(t, err, row.input)
		require.Equal(t, row.expected, result)
	}
}

func TestPartyEras(t *testing.T) {
	require.ElementsMatch(t, []Party{Democrat, Independent, Republican}, PartiesIn(EraCurrent))
	require.Equal(t, EraErrata, CrawfordRepublicans.Era())
	require.Equal(t, EraHistorical, Whig.Era())
	require.Panics(t, func() { Party("Tea").Era() })
}

func TestParseState(t *testing.T) {
	table := []struct {
		input    string
		expected State
		fails    bool
	}{
		{input: "", expected: ""},
		{input: "ky", expected: "KY"},
		{input: "Arkansas", expected: "AR"},
		{input: "idaho", expected: "ID"},
		{input: "MT", expected: "MT"},
		{input: "IL", expected: "IL"},
		{input: "XX", fails: true},
	}

	for _, row := range table {
		result, err := ParseState(row.input)
		if row.fails {
			require.Error(t, err, row.input)
			continue
		}
		require.NoError(t, err, row.input)
		require.Equal(t, row.expected, result)
	}
}

func TestStatesAreUniqueAndSorted(t *testing.T) {
	states := States()
	seen := map[State]bool{}
	for i, s := range states {
		require.Len(t, string(s), 2)
		require.False(t, seen[s], s)
		seen[s] = true
		if i > 0 {
			require.Less(t, string(states[i-1]), string(s))
		}
		require.NotEmpty(t, s.Name())
	}
}

func TestPartyFromCode(t *testing.T) {
	p, ok := PartyFromCode(" r")
	require.True(t, ok)
	require.Equal(t, Republican, p)

	p, ok = PartyFromCode("ID")
	require.True(t, ok)
	require.Equal(t, IndependentDemocrat, p)

	_, ok = PartyFromCode("G")
	require.False(t, ok)
}
