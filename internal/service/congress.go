package service

import (
	"context"
	"fmt"

	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/consolidate"
	"github.com/z3c0/vistos-legacy/internal/records"
	"github.com/z3c0/vistos-legacy/internal/scrapers/propublica"
	"go.opentelemetry.io/otel/attribute"
)

// Resolve maps a selector (nil, a congress number or a year) to a congress.
func (s *Service) Resolve(selector *int) (congress.Identity, error) {
	return s.resolver.Resolve(selector)
}

func (s *Service) loadCongress(ctx context.Context, identity congress.Identity) (records.CongressRecord, error) {
	ctx, span := tracer.Start(ctx, "Congress")
	defer span.End()
	span.SetAttributes(attribute.Int("congress", identity.Number))

	entries, err := s.bioguide.FetchCongress(ctx, identity)
	if err != nil {
		return records.CongressRecord{}, fail(span, err)
	}
	record, err := consolidate.Congress(identity, entries)
	err = consolidate.Partial(s.tel, report_service_congress, err)
	if err != nil {
		s.tel.ReportBroken(report_service_congress, err, identity.Number)
		return records.CongressRecord{}, fail(span, err)
	}
	s.tel.ReportCount(report_service_congress, int64(len(record.Members())))
	return record, nil
}

// Congress returns every member of a congress with their full term history.
func (s *Service) Congress(ctx context.Context, selector *int) (records.CongressRecord, error) {
	identity, err := s.resolver.Resolve(selector)
	if err != nil {
		return records.CongressRecord{}, err
	}
	return s.loadCongress(ctx, identity)
}

// DeferCongress resolves the selector now and fetches nothing until the result is loaded.
func (s *Service) DeferCongress(selector *int) (records.Pending[records.CongressRecord], error) {
	identity, err := s.resolver.Resolve(selector)
	if err != nil {
		return records.Pending[records.CongressRecord]{}, err
	}
	return records.Defer(
		fmt.Sprintf("congress %d", identity.Number),
		func(ctx context.Context) (records.CongressRecord, error) {
			return s.loadCongress(ctx, identity)
		},
	), nil
}

// CongressRange is the result of Congresses.
type CongressRange struct {
	Congresses []records.CongressRecord
	// Members holds every member of the range once, with the terms of every congress merged.
	Members []records.MemberRecord
}

// Congresses fetches a range of congresses one after the other.
func (s *Service) Congresses(ctx context.Context, start, end *int, policy congress.RangePolicy) (CongressRange, error) {
	identities, err := s.resolver.ResolveRange(start, end, policy)
	if err != nil {
		return CongressRange{}, err
	}

	var out CongressRange
	for _, identity := range identities {
		record, err := s.loadCongress(ctx, identity)
		if err != nil {
			return CongressRange{}, err
		}
		out.Congresses = append(out.Congresses, record)
	}
	out.Members, err = consolidate.MergeAcrossCongresses(out.Congresses)
	err = consolidate.Partial(s.tel, report_service_congress, err)
	if err != nil {
		return CongressRange{}, err
	}
	return out, nil
}

// LegislativeMembers returns the members of one chamber of a congress according to the
// legislative source.
func (s *Service) LegislativeMembers(ctx context.Context, selector *int, chamber propublica.Chamber) ([]records.MemberRecord, error) {
	if s.cfg.legislative == nil {
		return nil, ErrNoLegislative
	}
	identity, err := s.resolver.Resolve(selector)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "LegislativeMembers")
	defer span.End()
	span.SetAttributes(
		attribute.Int("congress", identity.Number),
		attribute.String("chamber", string(chamber)),
	)

	entries, err := s.cfg.legislative.FetchMembers(ctx, identity, chamber, s.cfg.legislativeKey)
	if err != nil {
		return nil, fail(span, err)
	}
	members, err := consolidate.Members(entries)
	err = consolidate.Partial(s.tel, report_service_legislative, err)
	if err != nil {
		return nil, fail(span, err)
	}
	return members, nil
}
