package options

import (
	"fmt"
	"sort"
	"strings"
)

// State is a two letter postal code for a state, territory or historical territory.
type State string

var stateNames = map[State]string{
	"AK": "Alaska",
	"AL": "Alabama",
	"AR": "Arkansas",
	"AS": "American Samoa",
	"AZ": "Arizona",
	"CA": "California",
	"CO": "Colorado",
	"CT": "Connecticut",
	"DC": "District of Columbia",
	"DE": "Delaware",
	"DK": "Dakota Territory",
	"FL": "Florida",
	"GA": "Georgia",
	"GU": "Guam",
	"HI": "Hawaii",
	"IA": "Iowa",
	"ID": "Idaho",
	"IL": "Illinois",
	"IN": "Indiana",
	"KS": "Kansas",
	"KY": "Kentucky",
	"LA": "Louisiana",
	"MA": "Massachusetts",
	"MD": "Maryland",
	"ME": "Maine",
	"MI": "Michigan",
	"MN": "Minnesota",
	"MO": "Missouri",
	"MP": "Northern Mariana Islands",
	"MS": "Mississippi",
	"MT": "Montana",
	"NC": "North Carolina",
	"ND": "North Dakota",
	"NE": "Nebraska",
	"NH": "New Hampshire",
	"NJ": "New Jersey",
	"NM": "New Mexico",
	"NV": "Nevada",
	"NY": "New York",
	"OH": "Ohio",
	"OK": "Oklahoma",
	"OL": "Orleans Territory",
	"OR": "Oregon",
	"PA": "Pennsylvania",
	"PI": "Philippine Islands",
	"PR": "Puerto Rico",
	"RI": "Rhode Island",
	"SC": "South Carolina",
	"SD": "South Dakota",
	"TN": "Tennessee",
	"TX": "Texas",
	"US": "United States",
	"UT": "Utah",
	"VA": "Virginia",
	"VI": "Virgin Islands",
	"VT": "Vermont",
	"WA": "Washington",
	"WI": "Wisconsin",
	"WV": "West Virginia",
	"WY": "Wyoming",
}

func (s State) Valid() bool {
	_, ok := stateNames[s]
	return ok
}

func (s State) String() string {
	return string(s)
}

// Name is the full name, or "" for an invalid code.
func (s State) Name() string {
	return stateNames[s]
}

// States returns every code in alphabetical order.
func States() []State {
	out := make([]State, 0, len(stateNames))
	for s := range stateNames {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseState accepts a postal code or a full name in any case.
func ParseState(s string) (State, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if code := State(strings.ToUpper(s)); code.Valid() {
		return code, nil
	}
	for code, name := range stateNames {
		if strings.EqualFold(s, name) {
			return code, nil
		}
	}
	return "", fmt.Errorf("unknown state %q", s)
}
