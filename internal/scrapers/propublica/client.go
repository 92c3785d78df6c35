// Package propublica reads member lists from the ProPublica congress API. It is an optional
// source with a shallower history than the others.
package propublica

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/z3c0/vistos-legacy/internal/components/failure"
	"github.com/z3c0/vistos-legacy/internal/components/telemetry"
	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/options"
	"github.com/z3c0/vistos-legacy/internal/records"
	"golang.org/x/time/rate"
)

const (
	report_client_fetch_members = "client.fetch-members"
)

const DefaultBaseUrl = "https://api.propublica.org"

const (
	MinSenate = 80
	MinHouse  = 102
)

const (
	source       = "propublica"
	apiKeyHeader = "X-API-Key"
)

var ErrMissingAPIKey = failure.Validationf(source, "missing api key")

type Chamber string

const (
	Senate Chamber = "senate"
	House  Chamber = "house"
)

func ParseChamber(s string) (Chamber, error) {
	switch Chamber(strings.ToLower(strings.TrimSpace(s))) {
	case Senate:
		return Senate, nil
	case House:
		return House, nil
	}
	return "", failure.Validationf(source, "unknown chamber %q", s)
}

// Floor is the first congress the API has members for.
func (c Chamber) Floor() int {
	if c == Senate {
		return MinSenate
	}
	return MinHouse
}

type apiMember struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	ShortTitle  string `json:"short_title"`
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	Suffix      string `json:"suffix"`
	DateOfBirth string `json:"date_of_birth"`
	Party       string `json:"party"`
	State       string `json:"state"`
	InOffice    bool   `json:"in_office"`
}

type apiResult struct {
	Congress string      `json:"congress"`
	Chamber  string      `json:"chamber"`
	Members  []apiMember `json:"members"`
}

type apiResponse struct {
	Status  string      `json:"status"`
	Results []apiResult `json:"results"`
}

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// ApiKey is used when a call does not pass its own.
	ApiKey string
	// Timeout bounds every request, defaults to 30 seconds.
	Timeout time.Duration
	// RequestsPerSecond defaults to 2.
	RequestsPerSecond float64
	// Telemetry defaults to telemetry.NoopAPI.
	Telemetry telemetry.API
}

type Client struct {
	http   *resty.Client
	apiKey string
	tel    telemetry.API
}

func NewClient(opts ClientOptions) (*Client, error) {
	tel := telemetry.NewScopedAPI("propublica", telemetry.OrNoop(opts.Telemetry))

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
		http:   httpClient,
		apiKey: opts.ApiKey,
		tel:    tel,
	}, nil
}

func positionOf(chamber Chamber, m apiMember) string {
	if chamber == Senate {
		return "senator"
	}
	title := strings.ToLower(m.Title)
	for _, position := range []string{"resident commissioner", "delegate"} {
		if strings.Contains(title, position) {
			return position
		}
	}
	return "representative"
}

func partyName(code string) string {
	if party, ok := options.PartyFromCode(code); ok {
		return strings.ToLower(string(party))
	}
	return strings.ToLower(code)
}

func fullName(m apiMember) string {
	name := strings.ToUpper(m.LastName) + ","
	for _, part := range []string{m.FirstName, m.MiddleName, m.Suffix} {
		if part != "" {
			name += " " + part
		}
	}
	return name
}

func entryFromMember(identity congress.Identity, chamber Chamber, m apiMember) records.RawEntry {
	birth := ""
	if len(m.DateOfBirth) >= 4 {
		if _, ok := records.ParseYear(m.DateOfBirth[:4]); ok {
			birth = m.DateOfBirth[:4]
		}
	}
	return records.RawEntry{
		Source:     records.SourceProPublica,
		Identifier: m.Id,
		FullName:   fullName(m),
		FirstName:  m.FirstName,
		MiddleName: m.MiddleName,
		LastName:   m.LastName,
		Suffix:     m.Suffix,
		BirthYear:  birth,
		Position:   positionOf(chamber, m),
		Party:      partyName(m.Party),
		State:      strings.ToUpper(m.State),
		Congress:   identity.Number,
		TermStart:  identity.StartYear,
		TermEnd:    identity.EndYear,
	}
}

// FetchMembers returns one entry per member of a chamber in a congress.
func (c *Client) FetchMembers(ctx context.Context, identity congress.Identity, chamber Chamber, apiKey string) ([]records.RawEntry, error) {
	if chamber != Senate && chamber != House {
		return nil, failure.Validationf(source, "unknown chamber %q", chamber)
	}
	if identity.Number < chamber.Floor() {
		return nil, failure.NotSupportedf(
			source, "%s members start at congress %d, got %d",
			chamber, chamber.Floor(), identity.Number,
		)
	}
	if apiKey == "" {
		apiKey = c.apiKey
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := fmt.Sprintf("/congress/v1/%d/%s/members.json", identity.Number, chamber)
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, apiKey).
		Get(endpoint)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_members, fmt.Errorf("fetch: %w", err), endpoint)
		return nil, failure.ConnectionErr(source, report_client_fetch_members, err)
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		c.tel.ReportBroken(report_client_fetch_members, fmt.Errorf("unexpected status: %s", res.Status()), endpoint)
		return nil, failure.StatusErr(source, report_client_fetch_members, res.StatusCode(), endpoint)
	}

	var body apiResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_members, fmt.Errorf("decode: %w", err), endpoint)
		return nil, failure.New(failure.KindShape, source, report_client_fetch_members, err)
	}
	if body.Status != "" && body.Status != "OK" {
		return nil, failure.Shapef(source, "api status %q", body.Status)
	}
	if len(body.Results) == 0 {
		return nil, failure.Shapef(source, "response for %s has no results", endpoint)
	}

	var entries []records.RawEntry
	for _, m := range body.Results[0].Members {
		if !records.ValidIdentifier(m.Id) {
			c.tel.ReportWarning(report_client_fetch_members, "member without identifier", m.LastName)
			continue
		}
		entries = append(entries, entryFromMember(identity, chamber, m))
	}
	c.tel.ReportCount(report_client_fetch_members, int64(len(entries)))
	return entries, nil
}
