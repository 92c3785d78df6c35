// Package options holds the closed sets of values the directory search form accepts.
// The zero value of every type means "not specified".
package options

import (
	"fmt"
	"strings"
)

type Position string

const (
	Representative       Position = "Representative"
	Senator              Position = "Senator"
	Delegate             Position = "Delegate"
	ResidentCommissioner Position = "Resident Commissioner"
	VicePresident        Position = "Vice President"
	President            Position = "President"
	ContinentalCongress  Position = "ContCong"
	SpeakerOfTheHouse    Position = "Speaker of the House"
)

var positions = []Position{
	Representative,
	Senator,
	Delegate,
	ResidentCommissioner,
	VicePresident,
	President,
	ContinentalCongress,
	SpeakerOfTheHouse,
}

func Positions() []Position {
	return append([]Position(nil), positions...)
}

func (p Position) Valid() bool {
	for _, known := range positions {
		if p == known {
			return true
		}
	}
	return false
}

func (p Position) String() string {
	return string(p)
}

// ParsePosition matches a position case-insensitively. An empty string parses to the zero
// value.
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, known := range positions {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	if strings.EqualFold(s, "continental congress") {
		return ContinentalCongress, nil
	}
	return "", fmt.Errorf("unknown position %q", s)
}
