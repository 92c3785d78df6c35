package bioguide

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/z3c0/vistos-legacy/pkg/htmlutil"
)

// ResultRow is one row of a search results page. Rows that continue the previous member (a
// second position held in the same congress) carry the identifier of that member and no name.
type ResultRow struct {
	Identifier   string
	FullName     string
	Lifespan     string
	Position     string
	Party        string
	State        string
	Congress     int
	TermStart    int
	TermEnd      int
	Continuation bool
}

var (
	identifierInHref = regexp.MustCompile(`[A-Z][0-9]{6}`)
	termRegex        = regexp.MustCompile(`([0-9]{1,3})(?:\s*\(([0-9]{4})\s*-\s*([0-9]{4})\)?)?`)
)

func identifierFromHref(href string) string {
	if u, err := url.Parse(href); err == nil {
		if index := u.Query().Get("index"); index != "" {
			return index
		}
	}
	return identifierInHref.FindString(href)
}

// parseTermCell reads "116(2019-2021)" or just "116".
func parseTermCell(text string) (congress, start, end int, ok bool) {
	m := termRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, 0, false
	}
	congress, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		start, _ = strconv.Atoi(m[2])
		end, _ = strconv.Atoi(m[3])
	}
	return congress, start, end, true
}

// findResultsTable picks the table whose header names the member column.
func findResultsTable(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		header := strings.ToLower(htmlutil.SelectionText(table.Find("tr").First()))
		if strings.Contains(header, "member name") || (strings.Contains(header, "name") && strings.Contains(header, "congress")) {
			found = table
			return false
		}
		return true
	})
	return found
}

// parseResultRows reads member rows from a results page. Pages without a results table fall
// back to the bare member links the newer layout prints.
func parseResultRows(doc *goquery.Document) []ResultRow {
	table := findResultsTable(doc)
	if table == nil {
		return parseResultLinks(doc)
	}

	var rows []ResultRow
	var previous *ResultRow
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 6 {
			return
		}
		text := func(i int) string {
			return htmlutil.SelectionText(cells.Eq(i))
		}

		row := ResultRow{
			FullName: text(0),
			Lifespan: text(1),
			Position: text(2),
			Party:    text(3),
			State:    text(4),
		}
		row.Identifier = identifierFromHref(cells.Eq(0).Find("a").AttrOr("href", ""))
		row.Congress, row.TermStart, row.TermEnd, _ = parseTermCell(text(5))

		if row.FullName == "" && row.Lifespan == "" {
			if previous == nil {
				return
			}
			row.Continuation = true
			row.Identifier = previous.Identifier
			row.FullName = previous.FullName
			row.Lifespan = previous.Lifespan
		}

		rows = append(rows, row)
		previous = &rows[len(rows)-1]
	})
	return rows
}

func parseResultLinks(doc *goquery.Document) []ResultRow {
	var rows []ResultRow
	doc.Find("div.row > div > a.red").Each(func(_ int, a *goquery.Selection) {
		id := identifierFromHref(a.AttrOr("href", ""))
		if id == "" {
			return
		}
		rows = append(rows, ResultRow{
			Identifier: id,
			FullName:   htmlutil.SelectionText(a),
		})
	})
	return rows
}

// finalPageNumber reads the pagination control, a page without one has a single page.
func finalPageNumber(doc *goquery.Document) int {
	link := doc.Find("ul.pagination li.PagedList-skipToLast a").First()
	if link.Length() == 0 {
		links := doc.Find("ul.pagination li a")
		if links.Length() == 0 {
			return 1
		}
		link = links.Last()
		label := htmlutil.SelectionText(link)
		if (label == ">" || label == "»" || label == ">>") && links.Length() > 1 {
			link = links.Eq(links.Length() - 2)
		}
	}

	page, err := strconv.Atoi(htmlutil.HrefParam(link, "page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
