// Package search builds the form the directory's member search accepts.
package search

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/z3c0/vistos-legacy/internal/components/failure"
	"github.com/z3c0/vistos-legacy/internal/options"
)

// form field names of the directory search page
const (
	FieldLastName  = "LastName"
	FieldFirstName = "FirstName"
	FieldPosition  = "Position"
	FieldState     = "State"
	FieldParty     = "Party"
	FieldCongress  = "YearOrCongress"
)

// Criteria narrows a member search. Every field is optional but at least one has to be set.
// Names are matched as case-insensitive prefixes by the directory itself.
type Criteria struct {
	FirstName string
	LastName  string
	Position  options.Position
	Party     options.Party
	State     options.State
	// Congress is a congress number, nil means any.
	Congress *int
}

// ParseCriteria builds criteria from loose text, as typed on a command line.
func ParseCriteria(first, last, position, party, state string, congress *int) (Criteria, error) {
	var errs []error
	pos, err := options.ParsePosition(position)
	if err != nil {
		errs = append(errs, err)
	}
	par, err := options.ParseParty(party)
	if err != nil {
		errs = append(errs, err)
	}
	st, err := options.ParseState(state)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Criteria{}, failure.New(failure.KindValidation, "search", "parse criteria", errors.Join(errs...))
	}
	return Criteria{
		FirstName: first,
		LastName:  last,
		Position:  pos,
		Party:     par,
		State:     st,
		Congress:  congress,
	}, nil
}

func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.FirstName) == "" &&
		strings.TrimSpace(c.LastName) == "" &&
		c.Position == "" &&
		c.Party == "" &&
		c.State == "" &&
		c.Congress == nil
}

func (c Criteria) String() string {
	var parts []string
	add := func(name, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf("%s=%q", name, value))
		}
	}
	add("first", strings.TrimSpace(c.FirstName))
	add("last", strings.TrimSpace(c.LastName))
	add("position", string(c.Position))
	add("party", string(c.Party))
	add("state", string(c.State))
	if c.Congress != nil {
		add("congress", strconv.Itoa(*c.Congress))
	}
	return strings.Join(parts, " ")
}

// Query is a validated search ready to be sent.
type Query struct {
	values url.Values
}

// Values returns a copy of the form fields.
func (q Query) Values() url.Values {
	out := make(url.Values, len(q.values))
	for k, v := range q.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Form flattens the query into the map resty's SetFormData takes. Unset fields are sent empty
// since the search page expects every field.
func (q Query) Form() map[string]string {
	out := map[string]string{
		FieldLastName:  "",
		FieldFirstName: "",
		FieldPosition:  "",
		FieldState:     "",
		FieldParty:     "",
		FieldCongress:  "",
	}
	for k := range q.values {
		out[k] = q.values.Get(k)
	}
	return out
}

// Build validates criteria and turns it into a query. It never performs I/O.
func Build(c Criteria) (Query, error) {
	if c.IsEmpty() {
		return Query{}, failure.Validationf("search", "criteria is empty, refusing to search the whole directory")
	}
	if c.Position != "" && !c.Position.Valid() {
		return Query{}, failure.Validationf("search", "unknown position %q", c.Position)
	}
	if c.Party != "" && !c.Party.Valid() {
		return Query{}, failure.Validationf("search", "unknown party %q", c.Party)
	}
	if c.State != "" && !c.State.Valid() {
		return Query{}, failure.Validationf("search", "unknown state %q", c.State)
	}
	if c.Congress != nil && *c.Congress < 0 {
		return Query{}, failure.Validationf("search", "negative congress %d", *c.Congress)
	}

	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set(FieldFirstName, strings.TrimSpace(c.FirstName))
	set(FieldLastName, strings.TrimSpace(c.LastName))
	set(FieldPosition, string(c.Position))
	set(FieldParty, string(c.Party))
	set(FieldState, string(c.State))
	if c.Congress != nil {
		set(FieldCongress, strconv.Itoa(*c.Congress))
	}
	return Query{values: values}, nil
}
