// Package govinfo reads the congressional directory packages published through the GovInfo API.
//
// The API has no per-member lookup. A member is found by narrowing: the member's latest published
// congress picks a package, their state and chamber pick candidate granules, and a Matcher picks
// the entry.
package govinfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/z3c0/vistos-legacy/internal/components/chrono"
	"github.com/z3c0/vistos-legacy/internal/components/failure"
	"github.com/z3c0/vistos-legacy/internal/components/httpcache"
	"github.com/z3c0/vistos-legacy/internal/components/telemetry"
	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/records"
	"golang.org/x/time/rate"
)

const (
	report_client_list_packages = "client.list-packages"
	report_client_list_granules = "client.list-granules"
	report_client_fetch_summary = "client.fetch-summary"
	report_client_fetch_member  = "client.fetch-member"
)

const DefaultBaseUrl = "https://api.govinfo.gov"

// MinCongress is the first congress with a published directory package.
const MinCongress = 105

const (
	source        = "govinfo"
	collection    = "CDIR"
	apiKeyHeader  = "X-Api-Key"
	maxOffset     = 10000
	earliestIssue = "1970-01-01T00:00:00Z"
)

// ErrMissingAPIKey is returned before any request when neither the call nor the client has a key.
var ErrMissingAPIKey = failure.Validationf(source, "missing api key")

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// ApiKey is used when a call does not pass its own.
	ApiKey string
	// Timeout bounds every request, defaults to 30 seconds.
	Timeout time.Duration
	// RequestsPerSecond defaults to 5.
	RequestsPerSecond float64
	// PageSize defaults to 100.
	PageSize int
	// Cache stores granule listings and summaries, nil disables caching.
	Cache httpcache.Cache
	// Matcher defaults to BioguideMatcher.
	Matcher Matcher
	// Clock decides which congress is active, defaults to chrono.StandardTime.
	Clock chrono.TimeAPI
	// Telemetry defaults to telemetry.NoopAPI.
	Telemetry telemetry.API
}

// Client is safe for concurrent use.
type Client struct {
	baseUrl  *url.URL
	http     *resty.Client
	apiKey   string
	pageSize int
	cache    httpcache.Cache
	matcher  Matcher
	clock    chrono.TimeAPI
	resolver congress.Resolver
	tel      telemetry.API
}

func NewClient(opts ClientOptions) (*Client, error) {
	tel := telemetry.NewScopedAPI("govinfo", telemetry.OrNoop(opts.Telemetry))

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	if opts.Matcher == nil {
		opts.Matcher = BioguideMatcher{}
	}
	if opts.Clock == nil {
		opts.Clock = chrono.NewStandardTime()
	}

	parsedBaseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	httpClient.SetHeader("accept", "application/json")
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()))
	httpClient.SetTimeout(opts.Timeout)

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
		baseUrl:  parsedBaseUrl,
		http:     httpClient,
		apiKey:   opts.ApiKey,
		pageSize: opts.PageSize,
		cache:    opts.Cache,
		matcher:  opts.Matcher,
		clock:    opts.Clock,
		resolver: congress.NewResolver(opts.Clock),
		tel:      tel,
	}, nil
}

func (c *Client) key(apiKey string) (string, error) {
	if apiKey != "" {
		return apiKey, nil
	}
	if c.apiKey != "" {
		return c.apiKey, nil
	}
	return "", ErrMissingAPIKey
}

func checkFloor(n int) error {
	if n < MinCongress {
		return failure.NotSupportedf(source, "directory packages start at congress %d, got %d", MinCongress, n)
	}
	return nil
}

var errNotFound = errors.New("not found")

func (c *Client) getJSON(ctx context.Context, apiKey, endpoint string, params map[string]string, op string, cached bool, out any) error {
	fetch := func() ([]byte, error) {
		res, err := c.http.R().
			SetContext(ctx).
			SetHeader(apiKeyHeader, apiKey).
			SetQueryParams(params).
			Get(endpoint)
		if err != nil {
			c.tel.ReportBroken(op, fmt.Errorf("fetch: %w", err), endpoint)
			return nil, failure.ConnectionErr(source, op, err)
		}
		if res.StatusCode() == http.StatusNotFound {
			return nil, errNotFound
		}
		if res.StatusCode() < 200 || res.StatusCode() >= 300 {
			c.tel.ReportBroken(op, fmt.Errorf("unexpected status: %s", res.Status()), endpoint)
			return nil, failure.StatusErr(source, op, res.StatusCode(), endpoint)
		}
		return res.Body(), nil
	}

	var body []byte
	var err error
	if cached {
		var cacheKey string
		cacheKey, err = httpcache.Key(source, c.baseUrl, withQuery(endpoint, params))
		if err != nil {
			return err
		}
		body, err = httpcache.Fetch(ctx, c.cache, c.tel, cacheKey, fetch)
	} else {
		body, err = fetch()
	}
	if err != nil {
		return err
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		c.tel.ReportBroken(op, fmt.Errorf("decode: %w", err), endpoint)
		return failure.New(failure.KindShape, source, op, err)
	}
	return nil
}

func withQuery(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return endpoint + "?" + values.Encode()
}

// packages lists every directory package of a congress, oldest first.
func (c *Client) packages(ctx context.Context, apiKey string, n int) ([]packageInfo, error) {
	endpoint := fmt.Sprintf(
		"/collections/%s/%s/%s",
		collection, earliestIssue,
		c.clock.Now().UTC().Format("2006-01-02T15:04:05Z"),
	)

	var found []packageInfo
	for offset := 0; offset < maxOffset; offset += c.pageSize {
		var page collectionPage
		err := c.getJSON(ctx, apiKey, endpoint, map[string]string{
			"congress": fmt.Sprint(n),
			"offset":   fmt.Sprint(offset),
			"pageSize": fmt.Sprint(c.pageSize),
		}, report_client_list_packages, false, &page)
		if errors.Is(err, errNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		found = append(found, page.Packages...)
		if len(page.Packages) == 0 || offset+len(page.Packages) >= page.Count {
			break
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].DateIssued < found[j].DateIssued
	})
	c.tel.ReportCount(report_client_list_packages, int64(len(found)))
	return found, nil
}

// latestPackage returns false when no package was published for the congress.
func (c *Client) latestPackage(ctx context.Context, apiKey string, n int) (packageInfo, bool, error) {
	found, err := c.packages(ctx, apiKey, n)
	if err != nil {
		return packageInfo{}, false, err
	}
	if len(found) == 0 {
		return packageInfo{}, false, nil
	}
	return found[len(found)-1], true, nil
}

func (c *Client) granules(ctx context.Context, apiKey, packageId string) ([]granuleInfo, error) {
	endpoint := fmt.Sprintf("/packages/%s/granules", packageId)

	var found []granuleInfo
	for offset := 0; offset < maxOffset; offset += c.pageSize {
		var page granulesPage
		err := c.getJSON(ctx, apiKey, endpoint, map[string]string{
			"offset":   fmt.Sprint(offset),
			"pageSize": fmt.Sprint(c.pageSize),
		}, report_client_list_granules, true, &page)
		if err != nil {
			return nil, err
		}
		found = append(found, page.Granules...)
		if len(page.Granules) == 0 || offset+len(page.Granules) >= page.Count {
			break
		}
	}
	c.tel.ReportCount(report_client_list_granules, int64(len(found)))
	return found, nil
}

func (c *Client) summary(ctx context.Context, apiKey, packageId, granuleId string) (Entry, error) {
	endpoint := fmt.Sprintf("/packages/%s/granules/%s/summary", packageId, granuleId)
	var entry Entry
	err := c.getJSON(ctx, apiKey, endpoint, nil, report_client_fetch_summary, true, &entry)
	if err != nil {
		return Entry{}, err
	}
	if entry.GranuleId == "" {
		entry.GranuleId = granuleId
	}
	if entry.PackageId == "" {
		entry.PackageId = packageId
	}
	return entry, nil
}

// Exists reports whether a directory package was published for congress n. Congresses below
// MinCongress report false without a request.
func (c *Client) Exists(ctx context.Context, n int, apiKey string) (bool, error) {
	if n < MinCongress {
		return false, nil
	}
	apiKey, err := c.key(apiKey)
	if err != nil {
		return false, err
	}
	_, ok, err := c.latestPackage(ctx, apiKey, n)
	return ok, err
}

// FetchCongress returns every member entry of the latest directory package of a congress.
func (c *Client) FetchCongress(ctx context.Context, identity congress.Identity, apiKey string) (Package, error) {
	err := checkFloor(identity.Number)
	if err != nil {
		return Package{}, err
	}
	apiKey, err = c.key(apiKey)
	if err != nil {
		return Package{}, err
	}

	info, ok, err := c.latestPackage(ctx, apiKey, identity.Number)
	if err != nil {
		return Package{}, err
	}
	if !ok {
		return Package{}, failure.NotSupportedf(source, "no directory package published for congress %d", identity.Number)
	}

	granules, err := c.granules(ctx, apiKey, info.PackageId)
	if err != nil {
		return Package{}, err
	}

	pkg := Package{Identity: identity, PackageId: info.PackageId, DateIssued: info.DateIssued}
	for _, g := range granules {
		if g.GranuleClass != "" && g.GranuleClass != classMemberState {
			continue
		}
		entry, err := c.summary(ctx, apiKey, info.PackageId, g.GranuleId)
		if errors.Is(err, errNotFound) {
			c.tel.ReportWarning(report_client_fetch_summary, "granule listed without summary", g.GranuleId)
			continue
		}
		if err != nil {
			return Package{}, err
		}
		if !entry.IsMemberEntry() {
			continue
		}
		pkg.Entries = append(pkg.Entries, entry)
	}
	c.tel.ReportCount(report_client_fetch_summary, int64(len(pkg.Entries)))
	return pkg, nil
}

// narrowTerm picks the congress to search for a member: their latest term that has been published.
// The second return is false when the only eligible term is the active congress.
func (c *Client) narrowTerm(member records.MemberRecord) (records.TermRecord, bool, error) {
	death, hasDeath := records.ParseYear(member.DeathYear())
	current := c.resolver.CurrentNumber()

	var latest *records.TermRecord
	activeOnly := false
	for _, term := range member.Terms() {
		if end, ok := term.EndYear(); ok && hasDeath && end > death {
			continue
		}
		if term.Congress() < MinCongress || term.Chamber() == records.ChamberContinental {
			continue
		}
		if term.Congress() >= current {
			activeOnly = true
			continue
		}
		latest = &term
	}
	if latest != nil {
		return *latest, true, nil
	}
	if activeOnly {
		return records.TermRecord{}, false, nil
	}
	return records.TermRecord{}, false, failure.NotSupportedf(
		source, "member %s has no term in a published directory package", member.Identifier(),
	)
}

func granulePattern(packageId string, term records.TermRecord) *regexp.Regexp {
	chamber := "H"
	if term.Chamber() == records.ChamberSenate {
		chamber = "S"
	}
	return regexp.MustCompile(fmt.Sprintf(
		`^%s-%s-%s(-\d+)?$`,
		regexp.QuoteMeta(packageId), regexp.QuoteMeta(term.State()), chamber,
	))
}

// FetchMember finds a member's entry in the directory package of their latest published term.
// The second return is false when no entry matches, which is common since many entries carry no
// identifier.
func (c *Client) FetchMember(ctx context.Context, member records.MemberRecord, apiKey string) (Entry, bool, error) {
	term, ok, err := c.narrowTerm(member)
	if err != nil {
		return Entry{}, false, err
	}
	apiKey, err = c.key(apiKey)
	if err != nil {
		return Entry{}, false, err
	}
	if !ok {
		return Entry{}, false, nil
	}

	c.tel.ReportDebug(report_client_fetch_member, member.Identifier(), term.Congress())

	info, ok, err := c.latestPackage(ctx, apiKey, term.Congress())
	if err != nil || !ok {
		return Entry{}, false, err
	}
	granules, err := c.granules(ctx, apiKey, info.PackageId)
	if err != nil {
		return Entry{}, false, err
	}

	pattern := granulePattern(info.PackageId, term)
	for _, g := range granules {
		if !pattern.MatchString(g.GranuleId) {
			continue
		}
		entry, err := c.summary(ctx, apiKey, info.PackageId, g.GranuleId)
		if errors.Is(err, errNotFound) {
			continue
		}
		if err != nil {
			return Entry{}, false, err
		}
		if entry.IsMemberEntry() && c.matcher.Match(member, entry) {
			return entry, true, nil
		}
	}
	return Entry{}, false, nil
}
