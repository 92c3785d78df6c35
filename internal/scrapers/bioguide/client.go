// Package bioguide scrapes the historical biographical directory of congress members.
//
// Searches go through the directory's HTML search form, member details come from the XML file
// the directory publishes for each member.
package bioguide

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/z3c0/vistos-legacy/internal/components/failure"
	"github.com/z3c0/vistos-legacy/internal/components/httpcache"
	"github.com/z3c0/vistos-legacy/internal/components/telemetry"
	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/options"
	"github.com/z3c0/vistos-legacy/internal/records"
	"github.com/z3c0/vistos-legacy/internal/search"
	"golang.org/x/time/rate"
)

const (
	report_client_get_token    = "client.get-token"
	report_client_search       = "client.search"
	report_client_fetch_member = "client.fetch-member"
)

const DefaultBaseUrl = "https://bioguideretro.congress.gov"

const source = "bioguide"

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// KeepCompoundNames leaves names as printed instead of splitting them.
	KeepCompoundNames bool
	// SkipDetails builds entries from the search result rows alone instead of fetching every
	// member's file. Entries then carry no biography and only the terms the search matched.
	SkipDetails bool
	// Timeout bounds every request, defaults to 30 seconds.
	Timeout time.Duration
	// RequestsPerSecond defaults to 2.
	RequestsPerSecond float64
	// Cache stores member files, nil disables caching.
	Cache httpcache.Cache
	// Telemetry defaults to telemetry.NoopAPI.
	Telemetry telemetry.API
}

// Client is safe for concurrent use. Searches are serialized since the directory keeps the
// current search (and therefore its pagination) in the session.
type Client struct {
	baseUrl           *url.URL
	http              *resty.Client
	cache             httpcache.Cache
	keepCompoundNames bool
	skipDetails       bool
	tel               telemetry.API

	searchLock sync.Mutex
}

func NewClient(opts ClientOptions) (*Client, error) {
	tel := telemetry.NewScopedAPI("bioguide", telemetry.OrNoop(opts.Telemetry))

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}

	parsedBaseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()))
	httpClient.SetTimeout(opts.Timeout)

	// max burst >= 1 just means that no requests will be dropped
	burst := int(opts.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)

	return &Client{
		baseUrl:           parsedBaseUrl,
		http:              httpClient,
		cache:             opts.Cache,
		keepCompoundNames: opts.KeepCompoundNames,
		skipDetails:       opts.SkipDetails,
		tel:               tel,
	}, nil
}

var errNotFound = errors.New("not found")

// send performs a request, classifying transport failures and non-2xx responses as connection
// errors. A 404 is returned as errNotFound when allowNotFound is set.
func (c *Client) send(req *resty.Request, method, endpoint, op string, allowNotFound bool) (*resty.Response, error) {
	res, err := req.Execute(method, endpoint)
	if err != nil {
		c.tel.ReportBroken(op, fmt.Errorf("fetch: %w", err), endpoint)
		return nil, failure.ConnectionErr(source, op, err)
	}
	if allowNotFound && res.StatusCode() == http.StatusNotFound {
		return res, errNotFound
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		c.tel.ReportBroken(op, fmt.Errorf("unexpected status: %s", res.Status()), endpoint)
		return nil, failure.StatusErr(source, op, res.StatusCode(), endpoint)
	}
	return res, nil
}

func (c *Client) document(res *resty.Response, op string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		c.tel.ReportBroken(op, fmt.Errorf("parse: %w", err))
		return nil, failure.New(failure.KindShape, source, op, err)
	}
	return doc, nil
}

// verificationToken reads the anti-forgery token the search form requires from the root page.
// Fetching it also starts the session cookie.
func (c *Client) verificationToken(ctx context.Context) (string, error) {
	res, err := c.send(c.http.R().SetContext(ctx), resty.MethodGet, "/", report_client_get_token, false)
	if err != nil {
		return "", err
	}
	doc, err := c.document(res, report_client_get_token)
	if err != nil {
		return "", err
	}
	token := doc.Find(`input[name="__RequestVerificationToken"]`).AttrOr("value", "")
	if token == "" {
		err := fmt.Errorf("could not find verification token")
		c.tel.ReportBroken(report_client_get_token, err)
		return "", failure.New(failure.KindShape, source, report_client_get_token, err)
	}
	return token, nil
}

// SearchRows runs a search and returns the rows of every results page.
func (c *Client) SearchRows(ctx context.Context, query search.Query) ([]ResultRow, error) {
	c.searchLock.Lock()
	defer c.searchLock.Unlock()

	token, err := c.verificationToken(ctx)
	if err != nil {
		return nil, err
	}

	form := query.Form()
	form["submitButton"] = "submit"
	form["__RequestVerificationToken"] = token

	c.tel.ReportDebug(report_client_search, form)

	res, err := c.send(
		c.http.R().SetContext(ctx).SetFormData(form),
		resty.MethodPost, "/Home/SearchResults",
		report_client_search, false,
	)
	if err != nil {
		return nil, err
	}
	doc, err := c.document(res, report_client_search)
	if err != nil {
		return nil, err
	}

	rows := parseResultRows(doc)
	finalPage := finalPageNumber(doc)
	for page := 2; page <= finalPage; page++ {
		res, err := c.send(
			c.http.R().SetContext(ctx).SetQueryParam("page", fmt.Sprint(page)),
			resty.MethodGet, "/Home/SearchResults",
			report_client_search, false,
		)
		if err != nil {
			return nil, err
		}
		doc, err := c.document(res, report_client_search)
		if err != nil {
			return nil, err
		}
		rows = append(rows, parseResultRows(doc)...)
	}

	c.tel.ReportCount(report_client_search, int64(len(rows)))
	return rows, nil
}

func memberEndpoint(id string) string {
	return fmt.Sprintf("/Static_Files/data/%s/%s.xml", id[:1], id)
}

// FetchMember returns one entry per term of a member. The second return is false when the
// directory has no such member.
func (c *Client) FetchMember(ctx context.Context, id string) ([]records.RawEntry, bool, error) {
	if !records.ValidIdentifier(id) {
		return nil, false, failure.Validationf(source, "malformed member identifier %q", id)
	}

	endpoint := memberEndpoint(id)
	c.tel.ReportDebug(report_client_fetch_member, endpoint)

	key, err := httpcache.Key(source, c.baseUrl, endpoint)
	if err != nil {
		return nil, false, err
	}
	body, err := httpcache.Fetch(ctx, c.cache, c.tel, key, func() ([]byte, error) {
		res, err := c.send(c.http.R().SetContext(ctx), resty.MethodGet, endpoint, report_client_fetch_member, true)
		if err != nil {
			return nil, err
		}
		return res.Body(), nil
	})
	if errors.Is(err, errNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	parsed, err := parseMemberXML(body)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_member, fmt.Errorf("parse xml: %w", err), id)
		return nil, false, failure.New(failure.KindShape, source, report_client_fetch_member, err)
	}
	return c.entriesFromXML(id, parsed), true, nil
}

// entriesFromRows either converts rows directly or fetches the files of the members they name,
// in the order members first appear.
func (c *Client) entriesFromRows(ctx context.Context, rows []ResultRow) ([]records.RawEntry, error) {
	var entries []records.RawEntry
	if c.skipDetails {
		for _, row := range rows {
			if row.Identifier == "" {
				continue
			}
			entries = append(entries, c.entryFromRow(row))
		}
		return entries, nil
	}

	seen := map[string]struct{}{}
	for _, row := range rows {
		if row.Identifier == "" {
			continue
		}
		if _, ok := seen[row.Identifier]; ok {
			continue
		}
		seen[row.Identifier] = struct{}{}

		memberEntries, found, err := c.FetchMember(ctx, row.Identifier)
		if err != nil {
			return nil, err
		}
		if !found {
			c.tel.ReportWarning(report_client_fetch_member, "member listed in results has no file", row.Identifier)
			continue
		}
		entries = append(entries, memberEntries...)
	}
	return entries, nil
}

// Search returns the entries of every member matching query.
func (c *Client) Search(ctx context.Context, query search.Query) ([]records.RawEntry, error) {
	rows, err := c.SearchRows(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.entriesFromRows(ctx, rows)
}

// FetchCongress returns the entries of every member of a congress. Congress 0 is searched by
// position since searching it by number also returns presidents who never sat in it.
func (c *Client) FetchCongress(ctx context.Context, identity congress.Identity) ([]records.RawEntry, error) {
	number := identity.Number
	criteria := []search.Criteria{{Congress: &number}}
	if number == 0 {
		criteria = []search.Criteria{
			{Congress: &number, Position: options.ContinentalCongress},
			{Congress: &number, Position: options.Delegate},
		}
	}

	var rows []ResultRow
	for _, crit := range criteria {
		query, err := search.Build(crit)
		if err != nil {
			return nil, err
		}
		found, err := c.SearchRows(ctx, query)
		if err != nil {
			return nil, err
		}
		rows = append(rows, found...)
	}
	return c.entriesFromRows(ctx, rows)
}
