// Package records defines the normalized record model and the intermediate shape every source
// client parses into.
package records

import (
	"strconv"
	"strings"
)

const (
	SourceBioguide   = "bioguide"
	SourceGovInfo    = "govinfo"
	SourceProPublica = "propublica"
)

// RawEntry is one row of source data: a single person serving a single term. Sources fill what
// they have and leave the rest empty.
type RawEntry struct {
	Source     string `json:"source"`
	Identifier string `json:"identifier"`

	// FullName is the compound name exactly as the source printed it.
	FullName   string `json:"full_name"`
	FirstName  string `json:"first_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	Nickname   string `json:"nickname,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Suffix     string `json:"suffix,omitempty"`

	// years are kept as text since sources print things like "c. 1740" or "1801?"
	BirthYear string `json:"birth_year,omitempty"`
	DeathYear string `json:"death_year,omitempty"`
	Biography string `json:"biography,omitempty"`

	Position  string `json:"position,omitempty"`
	Party     string `json:"party,omitempty"`
	State     string `json:"state,omitempty"`
	Congress  int    `json:"congress"`
	TermStart int    `json:"term_start,omitempty"`
	TermEnd   int    `json:"term_end,omitempty"`
}

// ParseYear reads a year out of loosely formatted text, it returns false when there is no usable
// four digit year.
func ParseYear(text string) (int, bool) {
	text = strings.TrimSpace(text)
	start := -1
	for i, r := range text {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			if i-start == 3 {
				year, err := strconv.Atoi(text[start : i+1])
				return year, err == nil
			}
			continue
		}
		start = -1
	}
	return 0, false
}
