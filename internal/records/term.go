package records

import (
	"encoding/json"
	"strings"

	"github.com/z3c0/vistos-legacy/internal/components/failure"
)

type Chamber string

const (
	ChamberSenate      Chamber = "senate"
	ChamberHouse       Chamber = "house"
	ChamberContinental Chamber = "continental"
)

func (c Chamber) Valid() bool {
	switch c {
	case ChamberSenate, ChamberHouse, ChamberContinental:
		return true
	}
	return false
}

const (
	PositionPresident     = "president"
	PositionVicePresident = "vice president"
	PositionSpeaker       = "speaker of the house"
)

// ChamberOf maps a lower-case position to the chamber it sits in. Presidents and vice
// presidents sit in no chamber.
func ChamberOf(position string) (Chamber, bool) {
	switch strings.ToLower(strings.TrimSpace(position)) {
	case "senator":
		return ChamberSenate, true
	case "representative", "delegate", "resident commissioner", PositionSpeaker:
		return ChamberHouse, true
	case "contcong", "continental congress":
		return ChamberContinental, true
	}
	return "", false
}

// TermFields is the input of NewTerm.
type TermFields struct {
	Congress     int
	StartYear    int
	EndYear      int // 0 when unknown
	Chamber      Chamber
	State        string
	Party        string
	Position     string
	HouseSpeaker bool
}

// TermRecord is one member's service in one congress and chamber. It cannot be modified once
// built.
type TermRecord struct {
	f TermFields
}

// NewTerm validates the fields of a term.
func NewTerm(f TermFields) (TermRecord, error) {
	if f.Congress < 0 {
		return TermRecord{}, failure.Shapef("records", "term congress %d is negative", f.Congress)
	}
	if f.StartYear <= 0 {
		return TermRecord{}, failure.Shapef("records", "term in congress %d has no start year", f.Congress)
	}
	if f.EndYear != 0 && f.EndYear < f.StartYear {
		return TermRecord{}, failure.Shapef(
			"records", "term in congress %d ends (%d) before it starts (%d)",
			f.Congress, f.EndYear, f.StartYear,
		)
	}
	if !f.Chamber.Valid() {
		return TermRecord{}, failure.Shapef("records", "term in congress %d has unknown chamber %q", f.Congress, f.Chamber)
	}
	if f.HouseSpeaker && f.Chamber != ChamberHouse {
		return TermRecord{}, failure.Shapef("records", "speaker term in congress %d is not in the house", f.Congress)
	}
	return TermRecord{f: f}, nil
}

func (t TermRecord) Congress() int      { return t.f.Congress }
func (t TermRecord) StartYear() int     { return t.f.StartYear }
func (t TermRecord) Chamber() Chamber   { return t.f.Chamber }
func (t TermRecord) State() string      { return t.f.State }
func (t TermRecord) Party() string      { return t.f.Party }
func (t TermRecord) Position() string   { return t.f.Position }
func (t TermRecord) HouseSpeaker() bool { return t.f.HouseSpeaker }
func (t TermRecord) Fields() TermFields { return t.f }

// EndYear returns false when the source did not give one.
func (t TermRecord) EndYear() (int, bool) {
	return t.f.EndYear, t.f.EndYear != 0
}

type termKey struct {
	congress int
	chamber  Chamber
}

func (t TermRecord) key() termKey {
	return termKey{congress: t.f.Congress, chamber: t.f.Chamber}
}

// TermLess orders terms chronologically. Ties on the start year fall back to the congress and
// then the chamber so the order never depends on input order.
func TermLess(a, b TermRecord) bool {
	if a.f.StartYear != b.f.StartYear {
		return a.f.StartYear < b.f.StartYear
	}
	if a.f.Congress != b.f.Congress {
		return a.f.Congress < b.f.Congress
	}
	return a.f.Chamber < b.f.Chamber
}

type termJSON struct {
	Congress     int     `json:"congress_number"`
	StartYear    int     `json:"term_start_year"`
	EndYear      *int    `json:"term_end_year"`
	Chamber      Chamber `json:"chamber"`
	State        string  `json:"state"`
	Party        string  `json:"party"`
	Position     string  `json:"position"`
	HouseSpeaker bool    `json:"house_speaker"`
}

func (t TermRecord) MarshalJSON() ([]byte, error) {
	out := termJSON{
		Congress:     t.f.Congress,
		StartYear:    t.f.StartYear,
		Chamber:      t.f.Chamber,
		State:        t.f.State,
		Party:        t.f.Party,
		Position:     t.f.Position,
		HouseSpeaker: t.f.HouseSpeaker,
	}
	if end, ok := t.EndYear(); ok {
		out.EndYear = &end
	}
	return json.Marshal(out)
}

// UnmarshalJSON validates through NewTerm.
func (t *TermRecord) UnmarshalJSON(data []byte) error {
	var in termJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return failure.New(failure.KindShape, "records", "unmarshal term", err)
	}
	f := TermFields{
		Congress:     in.Congress,
		StartYear:    in.StartYear,
		Chamber:      in.Chamber,
		State:        in.State,
		Party:        in.Party,
		Position:     in.Position,
		HouseSpeaker: in.HouseSpeaker,
	}
	if in.EndYear != nil {
		f.EndYear = *in.EndYear
	}
	parsed, err := NewTerm(f)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
