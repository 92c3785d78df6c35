package bioguide

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/records"
	"github.com/z3c0/vistos-legacy/pkg/htmlutil"
	"golang.org/x/net/html/charset"
)

type memberXML struct {
	ID           string `xml:"id,attr"`
	PersonalInfo struct {
		Name struct {
			LastName   string `xml:"lastname"`
			FirstNames string `xml:"firstnames"`
		} `xml:"name"`
		BirthYear string    `xml:"birth-year"`
		DeathYear string    `xml:"death-year"`
		Terms     []termXML `xml:"term"`
	} `xml:"personal-info"`
	Biography string `xml:"biography"`
}

type termXML struct {
	Congress string `xml:"congress-number"`
	Party    string `xml:"term-party"`
	Position string `xml:"term-position"`
	State    string `xml:"term-state"`
}

func decodeMemberXML(body []byte) (memberXML, error) {
	var out memberXML
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charset.NewReaderLabel
	err := decoder.Decode(&out)
	return out, err
}

// stripInvalidXML drops runes XML 1.0 does not allow, which the directory's files
// occasionally contain.
func stripInvalidXML(body []byte) []byte {
	out := make([]byte, 0, len(body))
	for len(body) > 0 {
		r, size := utf8.DecodeRune(body)
		valid := r == '\t' || r == '\n' || r == '\r' ||
			(r >= 0x20 && r <= 0xD7FF) ||
			(r >= 0xE000 && r <= 0xFFFD) ||
			(r >= 0x10000 && r <= 0x10FFFF)
		if r == utf8.RuneError && size == 1 {
			valid = false
		}
		if valid {
			out = append(out, body[:size]...)
		}
		body = body[size:]
	}
	return out
}

// parseMemberXML decodes a member file, retrying once without invalid characters.
func parseMemberXML(body []byte) (memberXML, error) {
	parsed, err := decodeMemberXML(body)
	if err == nil {
		return parsed, nil
	}
	cleaned, retryErr := decodeMemberXML(stripInvalidXML(body))
	if retryErr != nil {
		return memberXML{}, err
	}
	return cleaned, nil
}

// normalizeParty lower-cases a party and maps the directory's placeholders to empty.
func normalizeParty(party string) string {
	party = strings.ToLower(htmlutil.CleanText(party))
	if party == "na" || party == "n/a" {
		return ""
	}
	return party
}

func (c *Client) nameFields(entry *records.RawEntry) {
	if c.keepCompoundNames {
		return
	}
	name, ok := SplitName(entry.FullName)
	if !ok {
		return
	}
	entry.FirstName = name.First
	entry.MiddleName = name.Middle
	entry.Nickname = name.Nickname
	entry.LastName = name.Last
	entry.Suffix = name.Suffix
}

// entriesFromXML turns a member file into one entry per term. Terms with an unreadable congress
// number are skipped.
func (c *Client) entriesFromXML(requested string, m memberXML) []records.RawEntry {
	id := strings.TrimSpace(m.ID)
	if id == "" {
		id = requested
	}

	last := htmlutil.CleanText(m.PersonalInfo.Name.LastName)
	first := htmlutil.CleanText(m.PersonalInfo.Name.FirstNames)
	fullName := last
	if first != "" {
		fullName = last + ", " + first
	}

	base := records.RawEntry{
		Source:     records.SourceBioguide,
		Identifier: id,
		FullName:   fullName,
		BirthYear:  htmlutil.CleanText(m.PersonalInfo.BirthYear),
		DeathYear:  htmlutil.CleanText(m.PersonalInfo.DeathYear),
		Biography:  htmlutil.CleanText(m.Biography),
	}
	c.nameFields(&base)

	var entries []records.RawEntry
	for _, t := range m.PersonalInfo.Terms {
		number, err := strconv.Atoi(strings.TrimSpace(t.Congress))
		if err != nil || number < 0 {
			c.tel.ReportWarning(report_client_fetch_member, "unreadable congress number", id, t.Congress)
			continue
		}
		entry := base
		entry.Congress = number
		entry.TermStart = congress.StartYear(number)
		entry.TermEnd = congress.EndYear(number)
		entry.Position = strings.ToLower(htmlutil.CleanText(t.Position))
		entry.Party = normalizeParty(t.Party)
		entry.State = strings.ToUpper(htmlutil.CleanText(t.State))
		entries = append(entries, entry)
	}
	return entries
}

// entryFromRow is used when member files are not fetched, rows carry no biography.
func (c *Client) entryFromRow(row ResultRow) records.RawEntry {
	entry := records.RawEntry{
		Source:     records.SourceBioguide,
		Identifier: row.Identifier,
		FullName:   row.FullName,
		Position:   strings.ToLower(row.Position),
		Party:      normalizeParty(row.Party),
		State:      strings.ToUpper(row.State),
		Congress:   row.Congress,
		TermStart:  row.TermStart,
		TermEnd:    row.TermEnd,
	}
	if entry.TermStart == 0 {
		entry.TermStart = congress.StartYear(row.Congress)
		entry.TermEnd = congress.EndYear(row.Congress)
	}
	entry.BirthYear, entry.DeathYear = SplitLifespan(row.Lifespan)
	c.nameFields(&entry)
	return entry
}
