// Package consolidate merges per-term source entries into member identities.
//
// Members come out in the order their identifier was first encountered. Callers that need a
// stable order independent of the sources should sort the result themselves.
package consolidate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/z3c0/vistos-legacy/internal/components/telemetry"

	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/records"
)

type group struct {
	fields records.MemberFields
	terms  map[termKey]records.TermFields
	order  []termKey
}

type termKey struct {
	congress int
	chamber  records.Chamber
}

func fillBlank(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}

func (g *group) fill(e records.RawEntry) {
	fillBlank(&g.fields.FullName, e.FullName)
	fillBlank(&g.fields.FirstName, e.FirstName)
	fillBlank(&g.fields.MiddleName, e.MiddleName)
	fillBlank(&g.fields.Nickname, e.Nickname)
	fillBlank(&g.fields.LastName, e.LastName)
	fillBlank(&g.fields.Suffix, e.Suffix)
	fillBlank(&g.fields.BirthYear, e.BirthYear)
	fillBlank(&g.fields.DeathYear, e.DeathYear)
	fillBlank(&g.fields.Biography, e.Biography)
}

// termOf converts an entry into term fields. Presidents and vice presidents serve in no chamber
// and have no term.
func termOf(e records.RawEntry) (records.TermFields, bool) {
	position := strings.ToLower(strings.TrimSpace(e.Position))
	chamber, ok := records.ChamberOf(position)
	if !ok {
		return records.TermFields{}, false
	}
	start := e.TermStart
	if start == 0 {
		start = congress.StartYear(e.Congress)
	}
	return records.TermFields{
		Congress:     e.Congress,
		StartYear:    start,
		EndYear:      e.TermEnd,
		Chamber:      chamber,
		State:        strings.ToUpper(e.State),
		Party:        e.Party,
		Position:     position,
		HouseSpeaker: position == records.PositionSpeaker,
	}, true
}

// positionLess prefers a regular position over the speakership, then the lexical minimum.
func positionLess(a, b string) bool {
	aSpeaker, bSpeaker := a == records.PositionSpeaker, b == records.PositionSpeaker
	if aSpeaker != bSpeaker {
		return !aSpeaker
	}
	return a < b
}

func pick(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case b < a:
		return b
	}
	return a
}

// mergeTerm combines two appearances of the same congress and chamber. The result does not
// depend on which came first.
func mergeTerm(a, b records.TermFields) records.TermFields {
	out := a
	if positionLess(b.Position, a.Position) {
		out.Position = b.Position
	}
	out.HouseSpeaker = a.HouseSpeaker || b.HouseSpeaker
	out.Party = pick(a.Party, b.Party)
	out.State = pick(a.State, b.State)
	if b.StartYear != 0 && (out.StartYear == 0 || b.StartYear < out.StartYear) {
		out.StartYear = b.StartYear
	}
	if b.EndYear > out.EndYear {
		out.EndYear = b.EndYear
	}
	return out
}

func (g *group) add(t records.TermFields) {
	key := termKey{congress: t.Congress, chamber: t.Chamber}
	existing, ok := g.terms[key]
	if !ok {
		g.terms[key] = t
		g.order = append(g.order, key)
		return
	}
	g.terms[key] = mergeTerm(existing, t)
}

func (g *group) build() (records.MemberRecord, bool, error) {
	if len(g.order) == 0 {
		return records.MemberRecord{}, false, nil
	}
	terms := make([]records.TermRecord, 0, len(g.order))
	for _, key := range g.order {
		term, err := records.NewTerm(g.terms[key])
		if err != nil {
			return records.MemberRecord{}, false, err
		}
		terms = append(terms, term)
	}
	member, err := records.NewMember(g.fields, terms)
	if err != nil {
		return records.MemberRecord{}, false, err
	}
	return member, true, nil
}

// Rejection is a member whose entries could not be built into a record.
type Rejection struct {
	Identifier string
	Err        error
}

// RejectedError is returned together with the members that could be built when others could
// not, typically a member file with no name. It unwraps to the shape error of every rejection.
type RejectedError struct {
	Rejections []Rejection
}

func (e *RejectedError) Error() string {
	if len(e.Rejections) == 1 {
		return fmt.Sprintf("rejected member %s: %v", e.Rejections[0].Identifier, e.Rejections[0].Err)
	}
	return fmt.Sprintf(
		"rejected %d members, first %s: %v",
		len(e.Rejections), e.Rejections[0].Identifier, e.Rejections[0].Err,
	)
}

func (e *RejectedError) Unwrap() []error {
	errs := make([]error, len(e.Rejections))
	for i, r := range e.Rejections {
		errs[i] = r.Err
	}
	return errs
}

// Partial reports err's rejections through tel and returns nil when err only rejected some
// members, otherwise it returns err unchanged.
func Partial(tel telemetry.API, id string, err error) error {
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		return err
	}
	for _, r := range rejected.Rejections {
		telemetry.OrNoop(tel).ReportWarning(id, r.Err, r.Identifier)
	}
	return nil
}

// Members groups entries by identifier. The first entry of a member supplies its personal fields,
// later entries only fill fields the earlier ones left blank. Every entry contributes a term,
// entries sharing a congress and chamber collapse into one.
//
// Entries without an identifier are dropped, as are members whose entries carry no term (for
// example a president who never sat in congress). Members that fail validation do not stop the
// others: the valid ones are returned with a *RejectedError naming the rest.
func Members(entries []records.RawEntry) ([]records.MemberRecord, error) {
	groups := map[string]*group{}
	var order []string
	for _, e := range entries {
		if e.Identifier == "" {
			continue
		}
		g, ok := groups[e.Identifier]
		if !ok {
			g = &group{
				fields: records.MemberFields{Identifier: e.Identifier},
				terms:  map[termKey]records.TermFields{},
			}
			groups[e.Identifier] = g
			order = append(order, e.Identifier)
		}
		g.fill(e)
		if t, ok := termOf(e); ok {
			g.add(t)
		}
	}

	members := make([]records.MemberRecord, 0, len(order))
	var rejected []Rejection
	for _, id := range order {
		member, ok, err := groups[id].build()
		if err != nil {
			rejected = append(rejected, Rejection{Identifier: id, Err: err})
			continue
		}
		if ok {
			members = append(members, member)
		}
	}
	if len(rejected) > 0 {
		return members, &RejectedError{Rejections: rejected}
	}
	return members, nil
}

// Flatten expands members back into entries, one per term plus one per speakership, so they can
// be consolidated again together with other entries.
func Flatten(members []records.MemberRecord) []records.RawEntry {
	var entries []records.RawEntry
	for _, m := range members {
		f := m.Fields()
		for _, t := range m.Terms() {
			tf := t.Fields()
			entry := records.RawEntry{
				Identifier: f.Identifier,
				FullName:   f.FullName,
				FirstName:  f.FirstName,
				MiddleName: f.MiddleName,
				Nickname:   f.Nickname,
				LastName:   f.LastName,
				Suffix:     f.Suffix,
				BirthYear:  f.BirthYear,
				DeathYear:  f.DeathYear,
				Biography:  f.Biography,
				Position:   tf.Position,
				Party:      tf.Party,
				State:      tf.State,
				Congress:   tf.Congress,
				TermStart:  tf.StartYear,
				TermEnd:    tf.EndYear,
			}
			entries = append(entries, entry)
			if tf.HouseSpeaker && tf.Position != records.PositionSpeaker {
				speaker := entry
				speaker.Position = records.PositionSpeaker
				entries = append(entries, speaker)
			}
		}
	}
	return entries
}

// Merge consolidates several member sets, a member present in more than one set appears once
// with the union of their terms.
func Merge(sets ...[]records.MemberRecord) ([]records.MemberRecord, error) {
	var entries []records.RawEntry
	for _, set := range sets {
		entries = append(entries, Flatten(set)...)
	}
	return Members(entries)
}

// MergeAcrossCongresses combines the members of several congresses. A member re-elected across
// them appears once with a chronological term history.
func MergeAcrossCongresses(congresses []records.CongressRecord) ([]records.MemberRecord, error) {
	sets := make([][]records.MemberRecord, 0, len(congresses))
	for _, c := range congresses {
		sets = append(sets, c.Members())
	}
	return Merge(sets...)
}

// Congress consolidates entries into a congress record. Like Members, a *RejectedError comes
// back together with a record of the valid members.
func Congress(identity congress.Identity, entries []records.RawEntry) (records.CongressRecord, error) {
	members, rejected := Members(entries)
	record, err := records.NewCongress(identity, members)
	if err != nil {
		return records.CongressRecord{}, err
	}
	return record, rejected
}
