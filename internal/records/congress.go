package records

import (
	"encoding/json"

	"github.com/z3c0/vistos-legacy/internal/components/failure"
	"github.com/z3c0/vistos-legacy/internal/congress"
)

// CongressRecord is a congress and the members who served in it, unique by identifier. Members
// keep the order they were given in.
type CongressRecord struct {
	identity congress.Identity
	members  []MemberRecord
}

func NewCongress(identity congress.Identity, members []MemberRecord) (CongressRecord, error) {
	if identity.Number < 0 || identity.StartYear >= identity.EndYear {
		return CongressRecord{}, failure.Shapef(
			"records", "malformed congress identity %d (%d-%d)",
			identity.Number, identity.StartYear, identity.EndYear,
		)
	}
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m.f.Identifier]; dup {
			return CongressRecord{}, failure.Shapef(
				"records", "member %s appears twice in congress %d",
				m.f.Identifier, identity.Number,
			)
		}
		seen[m.f.Identifier] = struct{}{}
	}
	return CongressRecord{
		identity: identity,
		members:  append([]MemberRecord(nil), members...),
	}, nil
}

func (c CongressRecord) Identity() congress.Identity { return c.identity }
func (c CongressRecord) Number() int                 { return c.identity.Number }

func (c CongressRecord) Members() []MemberRecord {
	return append([]MemberRecord(nil), c.members...)
}

// Member looks up a member by identifier.
func (c CongressRecord) Member(identifier string) (MemberRecord, bool) {
	for _, m := range c.members {
		if m.f.Identifier == identifier {
			return m, true
		}
	}
	return MemberRecord{}, false
}

type congressJSON struct {
	Identity congress.Identity `json:"identity"`
	Members  []MemberRecord    `json:"members"`
}

func (c CongressRecord) MarshalJSON() ([]byte, error) {
	members := c.members
	if members == nil {
		members = []MemberRecord{}
	}
	return json.Marshal(congressJSON{Identity: c.identity, Members: members})
}

func (c *CongressRecord) UnmarshalJSON(data []byte) error {
	var in congressJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return failure.New(failure.KindShape, "records", "unmarshal congress", err)
	}
	parsed, err := NewCongress(in.Identity, in.Members)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
