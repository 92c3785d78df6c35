package records

import (
	"encoding/json"
	"regexp"
	"sort"

	"github.com/z3c0/vistos-legacy/internal/components/failure"
)

var identifierRegex = regexp.MustCompile(`^[A-Z][0-9]{6}$`)

// ValidIdentifier reports whether id looks like a bioguide identifier (a letter and six digits).
func ValidIdentifier(id string) bool {
	return identifierRegex.MatchString(id)
}

// MemberFields is the input of NewMember, the personal fields of a member.
type MemberFields struct {
	Identifier string
	FullName   string
	FirstName  string
	MiddleName string
	Nickname   string
	LastName   string
	Suffix     string
	BirthYear  string
	DeathYear  string
	Biography  string
}

// MemberRecord is one person and their term history. The personal fields are stored once no
// matter how many terms reference them.
type MemberRecord struct {
	f     MemberFields
	terms []TermRecord
}

// NewMember validates a member. Terms are sorted chronologically, there must be at least one
// and no two may share a congress and chamber.
func NewMember(f MemberFields, terms []TermRecord) (MemberRecord, error) {
	if !ValidIdentifier(f.Identifier) {
		return MemberRecord{}, failure.Shapef("records", "malformed member identifier %q", f.Identifier)
	}
	if f.FullName == "" && f.LastName == "" {
		return MemberRecord{}, failure.Shapef("records", "member %s has no name", f.Identifier)
	}
	if len(terms) == 0 {
		return MemberRecord{}, failure.Shapef("records", "member %s has no terms", f.Identifier)
	}

	seen := make(map[termKey]struct{}, len(terms))
	for _, t := range terms {
		if _, dup := seen[t.key()]; dup {
			return MemberRecord{}, failure.Shapef(
				"records", "member %s has two terms in congress %d (%s)",
				f.Identifier, t.f.Congress, t.f.Chamber,
			)
		}
		seen[t.key()] = struct{}{}
	}

	sorted := append([]TermRecord(nil), terms...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return TermLess(sorted[i], sorted[j])
	})

	return MemberRecord{f: f, terms: sorted}, nil
}

func (m MemberRecord) Identifier() string   { return m.f.Identifier }
func (m MemberRecord) FullName() string     { return m.f.FullName }
func (m MemberRecord) FirstName() string    { return m.f.FirstName }
func (m MemberRecord) MiddleName() string   { return m.f.MiddleName }
func (m MemberRecord) Nickname() string     { return m.f.Nickname }
func (m MemberRecord) LastName() string     { return m.f.LastName }
func (m MemberRecord) Suffix() string       { return m.f.Suffix }
func (m MemberRecord) BirthYear() string    { return m.f.BirthYear }
func (m MemberRecord) DeathYear() string    { return m.f.DeathYear }
func (m MemberRecord) Biography() string    { return m.f.Biography }
func (m MemberRecord) Fields() MemberFields { return m.f }

// Terms returns a copy of the term history in chronological order.
func (m MemberRecord) Terms() []TermRecord {
	return append([]TermRecord(nil), m.terms...)
}

// LatestTerm is the last term of the history, members always have one.
func (m MemberRecord) LatestTerm() TermRecord {
	return m.terms[len(m.terms)-1]
}

// WithTerms builds a new member with the same personal fields and a different term history.
func (m MemberRecord) WithTerms(terms []TermRecord) (MemberRecord, error) {
	return NewMember(m.f, terms)
}

type memberJSON struct {
	Identifier string       `json:"identifier"`
	FullName   string       `json:"full_name"`
	FirstName  string       `json:"first_name"`
	MiddleName *string      `json:"middle_name"`
	Nickname   *string      `json:"nickname"`
	LastName   string       `json:"last_name"`
	Suffix     *string      `json:"suffix"`
	BirthYear  *string      `json:"birth_year"`
	DeathYear  *string      `json:"death_year"`
	Biography  *string      `json:"biography_text"`
	Terms      []TermRecord `json:"terms"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (m MemberRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(memberJSON{
		Identifier: m.f.Identifier,
		FullName:   m.f.FullName,
		FirstName:  m.f.FirstName,
		MiddleName: optional(m.f.MiddleName),
		Nickname:   optional(m.f.Nickname),
		LastName:   m.f.LastName,
		Suffix:     optional(m.f.Suffix),
		BirthYear:  optional(m.f.BirthYear),
		DeathYear:  optional(m.f.DeathYear),
		Biography:  optional(m.f.Biography),
		Terms:      m.terms,
	})
}

func (m *MemberRecord) UnmarshalJSON(data []byte) error {
	var in memberJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return failure.New(failure.KindShape, "records", "unmarshal member", err)
	}
	parsed, err := NewMember(MemberFields{
		Identifier: in.Identifier,
		FullName:   in.FullName,
		FirstName:  in.FirstName,
		MiddleName: deref(in.MiddleName),
		Nickname:   deref(in.Nickname),
		LastName:   in.LastName,
		Suffix:     deref(in.Suffix),
		BirthYear:  deref(in.BirthYear),
		DeathYear:  deref(in.DeathYear),
		Biography:  deref(in.Biography),
	}, in.Terms)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
