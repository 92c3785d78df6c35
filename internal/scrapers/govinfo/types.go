package govinfo

import (
	"strings"

	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/options"
	"github.com/z3c0/vistos-legacy/internal/records"
)

const (
	classMemberState = "CONGRESSMEMBERSTATE"

	subClassSenator              = "SENATOR"
	subClassRepresentative       = "REPRESENTATIVE"
	subClassDelegate             = "DELEGATE"
	subClassResidentCommissioner = "RESIDENTCOMMISSIONER"
)

var memberSubClasses = map[string]string{
	subClassSenator:              "senator",
	subClassRepresentative:       "representative",
	subClassDelegate:             "delegate",
	subClassResidentCommissioner: "resident commissioner",
}

type packageInfo struct {
	PackageId  string `json:"packageId"`
	Title      string `json:"title"`
	Congress   string `json:"congress"`
	DateIssued string `json:"dateIssued"`
}

type collectionPage struct {
	Count    int           `json:"count"`
	Packages []packageInfo `json:"packages"`
}

type granuleInfo struct {
	GranuleId    string `json:"granuleId"`
	Title        string `json:"title"`
	GranuleClass string `json:"granuleClass"`
}

type granulesPage struct {
	Count    int           `json:"count"`
	Granules []granuleInfo `json:"granules"`
}

// EntryMember is a person an entry is about.
type EntryMember struct {
	BioGuideId string `json:"bioGuideId"`
	MemberName string `json:"memberName"`
	Role       string `json:"role"`
	Party      string `json:"party"`
	State      string `json:"state"`
	Chamber    string `json:"chamber"`
	Congress   string `json:"congress"`
}

// Entry is the summary of one member granule of a directory package.
type Entry struct {
	GranuleId       string        `json:"granuleId"`
	PackageId       string        `json:"packageId"`
	Title           string        `json:"title"`
	GranuleClass    string        `json:"granuleClass"`
	SubGranuleClass string        `json:"subGranuleClass"`
	DateIssued      string        `json:"dateIssued"`
	Members         []EntryMember `json:"members"`
}

// IsMemberEntry reports whether the granule describes a sitting member.
func (e Entry) IsMemberEntry() bool {
	_, ok := memberSubClasses[e.SubGranuleClass]
	return e.GranuleClass == classMemberState && ok
}

// BioguideId is the identifier of the first listed member, often missing.
func (e Entry) BioguideId() string {
	if len(e.Members) == 0 {
		return ""
	}
	return e.Members[0].BioGuideId
}

// RawEntries converts the entry for consolidation. Members without a well formed identifier are
// dropped.
func (e Entry) RawEntries(identity congress.Identity) []records.RawEntry {
	var out []records.RawEntry
	for _, m := range e.Members {
		if !records.ValidIdentifier(m.BioGuideId) {
			continue
		}
		entry := records.RawEntry{
			Source:     records.SourceGovInfo,
			Identifier: m.BioGuideId,
			FullName:   m.MemberName,
			Position:   memberSubClasses[e.SubGranuleClass],
			State:      strings.ToUpper(m.State),
			Congress:   identity.Number,
			TermStart:  identity.StartYear,
			TermEnd:    identity.EndYear,
		}
		if last, first, ok := strings.Cut(m.MemberName, ","); ok {
			entry.LastName = strings.TrimSpace(last)
			entry.FirstName = strings.TrimSpace(first)
		} else {
			entry.LastName = strings.TrimSpace(m.MemberName)
		}
		if party, ok := options.PartyFromCode(m.Party); ok {
			entry.Party = strings.ToLower(string(party))
		} else {
			entry.Party = strings.ToLower(m.Party)
		}
		out = append(out, entry)
	}
	return out
}

// Package is a whole-congress directory.
type Package struct {
	Identity   congress.Identity `json:"identity"`
	PackageId  string            `json:"package_id"`
	DateIssued string            `json:"date_issued"`
	Entries    []Entry           `json:"entries"`
}

// RawEntries flattens every member entry of the package.
func (p Package) RawEntries() []records.RawEntry {
	var out []records.RawEntry
	for _, e := range p.Entries {
		out = append(out, e.RawEntries(p.Identity)...)
	}
	return out
}
