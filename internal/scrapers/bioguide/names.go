package bioguide

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/z3c0/vistos-legacy/pkg/htmlutil"
)

// Name is a compound directory name split into its parts.
type Name struct {
	First    string
	Middle   string
	Nickname string
	Last     string
	Suffix   string
}

var (
	nicknameRegex = regexp.MustCompile(`\s*\(([^()]+)\)`)
	// a lone I or V is only a suffix after a comma, otherwise it is a middle initial
	suffixRegex  = regexp.MustCompile(`(?:,\s*(Jr\.?|Sr\.?|I{1,3}|IV|VI{0,3})|\s+(Jr\.?|Sr\.?|II|III|IV|VI{1,3}))$`)
	casingPrefix = regexp.MustCompile(`^[A-Z][a-z][A-Z]`)
)

// FixSurnameCasing repairs the upper-cased surnames the directory prints. Segments separated by
// spaces, hyphens or apostrophes are handled one by one: a segment that already starts with a
// "Mc"/"La" style prefix keeps it, an all capital segment is capitalized and anything else is left
// alone.
func FixSurnameCasing(name string) string {
	var out strings.Builder
	segment := strings.Builder{}
	flush := func() {
		s := segment.String()
		segment.Reset()
		if s == "" {
			return
		}
		switch {
		case casingPrefix.MatchString(s):
			out.WriteString(s[:3] + strings.ToLower(s[3:]))
		case isUpper(s):
			runes := []rune(s)
			out.WriteString(string(runes[:1]) + strings.ToLower(string(runes[1:])))
		default:
			out.WriteString(s)
		}
	}
	for _, r := range name {
		if r == ' ' || r == '-' || r == '\'' {
			flush()
			out.WriteRune(r)
			continue
		}
		segment.WriteRune(r)
	}
	flush()
	return out.String()
}

func isUpper(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters > 0
}

// SplitName splits names like "MCCONNELL, Addison Mitchell (Mitch)" or "GORE, Albert Arnold, Jr.".
// Without a comma the run of capitalized words is taken as the surname. It returns false when
// no surname can be found.
func SplitName(full string) (Name, bool) {
	full = htmlutil.CleanText(full)
	if full == "" {
		return Name{}, false
	}

	var name Name
	var surname, rest string
	if comma := strings.Index(full, ","); comma >= 0 {
		surname = strings.TrimSpace(full[:comma])
		rest = strings.TrimSpace(full[comma+1:])
	} else {
		surname, rest = splitOnCapitals(full)
	}
	if surname == "" {
		return Name{}, false
	}

	if m := nicknameRegex.FindStringSubmatch(rest); m != nil {
		name.Nickname = strings.TrimSpace(m[1])
		rest = strings.TrimSpace(nicknameRegex.ReplaceAllString(rest, ""))
	}
	name.Suffix, rest = cutSuffix(rest)
	// the suffix sometimes sits on the surname instead
	if name.Suffix == "" {
		name.Suffix, surname = cutSuffix(surname)
	}

	words := strings.Fields(strings.Trim(rest, ", "))
	if len(words) > 0 {
		name.First = words[0]
		name.Middle = strings.Join(words[1:], " ")
	}
	name.Last = FixSurnameCasing(surname)
	return name, true
}

func cutSuffix(s string) (suffix, rest string) {
	m := suffixRegex.FindStringSubmatch(s)
	if m == nil {
		return "", s
	}
	suffix = m[1]
	if suffix == "" {
		suffix = m[2]
	}
	return suffix, strings.TrimSpace(s[:len(s)-len(m[0])])
}

// splitOnCapitals finds the first run of all-capital words and treats it as the surname.
func splitOnCapitals(full string) (surname, rest string) {
	words := strings.Fields(full)
	start, end := -1, -1
	for i, w := range words {
		if isUpper(strings.Trim(w, ".,")) && len(strings.Trim(w, ".,")) > 1 {
			if start < 0 {
				start = i
			}
			end = i + 1
			continue
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return "", ""
	}
	surname = strings.Join(words[start:end], " ")
	rest = strings.Join(append(append([]string{}, words[:start]...), words[end:]...), " ")
	return surname, rest
}

var lifespanRegex = regexp.MustCompile(`(\d{4}(?:/\d{4})?)?\D?-\D?(\d{4})?`)

// SplitLifespan reads "1942-", "1743-1826" or "c. 1740-1801" into birth and death.
func SplitLifespan(text string) (birth, death string) {
	m := lifespanRegex.FindStringSubmatch(htmlutil.CleanText(text))
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}
