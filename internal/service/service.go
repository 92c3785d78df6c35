// Package service ties the resolver, the source clients and the consolidator together into the
// operations callers use.
package service

import (
	"context"

	"github.com/z3c0/vistos-legacy/internal/components/assert"
	"github.com/z3c0/vistos-legacy/internal/components/chrono"
	"github.com/z3c0/vistos-legacy/internal/components/failure"
	"github.com/z3c0/vistos-legacy/internal/components/telemetry"
	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/records"
	"github.com/z3c0/vistos-legacy/internal/scrapers/govinfo"
	"github.com/z3c0/vistos-legacy/internal/scrapers/propublica"
	"github.com/z3c0/vistos-legacy/internal/search"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("vistos/service")

const (
	report_service_congress    = "service.congress"
	report_service_directory   = "service.directory"
	report_service_legislative = "service.legislative"
	report_service_search      = "service.search"
)

const source = "service"

// BioguideAPI is implemented by *bioguide.Client.
//
// note: fault injection point
type BioguideAPI interface {
	FetchCongress(ctx context.Context, identity congress.Identity) ([]records.RawEntry, error)
	FetchMember(ctx context.Context, id string) ([]records.RawEntry, bool, error)
	Search(ctx context.Context, query search.Query) ([]records.RawEntry, error)
}

// DirectoryAPI is implemented by *govinfo.Client.
//
// note: fault injection point
type DirectoryAPI interface {
	FetchCongress(ctx context.Context, identity congress.Identity, apiKey string) (govinfo.Package, error)
	FetchMember(ctx context.Context, member records.MemberRecord, apiKey string) (govinfo.Entry, bool, error)
}

// LegislativeAPI is implemented by *propublica.Client.
//
// note: fault injection point
type LegislativeAPI interface {
	FetchMembers(ctx context.Context, identity congress.Identity, chamber propublica.Chamber, apiKey string) ([]records.RawEntry, error)
}

// ErrNoDirectory is returned by directory operations of a service built without a directory
// source and without WithoutDirectory.
var ErrNoDirectory = failure.Validationf(source, "no directory source configured")

// ErrNoLegislative is returned by LegislativeMembers when no legislative source is configured.
var ErrNoLegislative = failure.Validationf(source, "no legislative source configured")

type config struct {
	directory        DirectoryAPI
	directoryKey     string
	withoutDirectory bool
	legislative      LegislativeAPI
	legislativeKey   string
	clock            chrono.TimeAPI
	tel              telemetry.API
}

type Option func(cfg *config)

// WithDirectory adds the directory source. An empty apiKey leaves key resolution to the client.
func WithDirectory(api DirectoryAPI, apiKey string) Option {
	return func(cfg *config) {
		cfg.directory = api
		cfg.directoryKey = apiKey
	}
}

// WithoutDirectory opts out of the directory source, Profile then skips it instead of failing.
func WithoutDirectory() Option {
	return func(cfg *config) {
		cfg.withoutDirectory = true
	}
}

func WithLegislative(api LegislativeAPI, apiKey string) Option {
	return func(cfg *config) {
		cfg.legislative = api
		cfg.legislativeKey = apiKey
	}
}

func WithClock(clock chrono.TimeAPI) Option {
	return func(cfg *config) {
		cfg.clock = clock
	}
}

func WithTelemetry(tel telemetry.API) Option {
	return func(cfg *config) {
		cfg.tel = tel
	}
}

// Service holds no state between calls besides its configuration and is safe for concurrent use.
type Service struct {
	bioguide BioguideAPI
	resolver congress.Resolver
	cfg      config
	tel      telemetry.API
}

func New(bioguide BioguideAPI, options ...Option) *Service {
	assert.NotNil(bioguide, "bioguide API implementation")

	cfg := config{clock: chrono.NewStandardTime()}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.withoutDirectory {
		cfg.directory = nil
	}

	return &Service{
		bioguide: bioguide,
		resolver: congress.NewResolver(cfg.clock),
		cfg:      cfg,
		tel:      telemetry.NewScopedAPI("service", telemetry.OrNoop(cfg.tel)),
	}
}

func (s *Service) Resolver() congress.Resolver {
	return s.resolver
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
