package govinfo

import (
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
	"github.com/z3c0/vistos-legacy/internal/records"
)

// Matcher decides whether a directory entry is about a member. Entries rarely share a key with
// the other sources, so this is a heuristic and kept behind an interface.
type Matcher interface {
	Match(member records.MemberRecord, entry Entry) bool
}

// BioguideMatcher matches on the bioguide identifier of the entry's first member.
type BioguideMatcher struct{}

func (BioguideMatcher) Match(member records.MemberRecord, entry Entry) bool {
	id := entry.BioguideId()
	return id != "" && id == member.Identifier()
}

// NameMatcher compares names with Jaro-Winkler similarity, for entries that lack identifiers.
type NameMatcher struct {
	// Threshold defaults to 0.92.
	Threshold float64
}

func normalizeName(s string) string {
	var out strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r):
			if space && out.Len() > 0 {
				out.WriteRune(' ')
			}
			space = false
			out.WriteRune(r)
		default:
			space = true
		}
	}
	return out.String()
}

// entryName rewrites "Last, First" as "last first".
func entryName(entry Entry) string {
	if len(entry.Members) == 0 {
		return ""
	}
	return normalizeName(entry.Members[0].MemberName)
}

func memberNames(member records.MemberRecord) []string {
	var names []string
	add := func(parts ...string) {
		name := normalizeName(strings.Join(parts, " "))
		if name != "" {
			names = append(names, name)
		}
	}
	last := member.LastName()
	if last == "" {
		add(member.FullName())
		return names
	}
	add(last, member.FirstName())
	if member.Nickname() != "" {
		add(last, member.Nickname())
	}
	if member.MiddleName() != "" {
		add(last, member.FirstName(), member.MiddleName())
	}
	return names
}

func (m NameMatcher) Match(member records.MemberRecord, entry Entry) bool {
	threshold := m.Threshold
	if threshold <= 0 {
		threshold = 0.92
	}
	target := entryName(entry)
	if target == "" {
		return false
	}
	for _, name := range memberNames(member) {
		if matchr.JaroWinkler(name, target, false) >= threshold {
			return true
		}
	}
	return false
}

// FirstMatcher matches when any of its matchers does, in order.
type FirstMatcher []Matcher

func (f FirstMatcher) Match(member records.MemberRecord, entry Entry) bool {
	for _, m := range f {
		if m.Match(member, entry) {
			return true
		}
	}
	return false
}
