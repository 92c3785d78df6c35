package service

import (
	"context"

	"github.com/z3c0/vistos-legacy/internal/components/failure"
	"github.com/z3c0/vistos-legacy/internal/consolidate"
	"github.com/z3c0/vistos-legacy/internal/records"
	"github.com/z3c0/vistos-legacy/internal/scrapers/govinfo"
	"github.com/z3c0/vistos-legacy/internal/search"
	"go.opentelemetry.io/otel/attribute"
)

// Member looks a member up by identifier. The second return is false when the directory does
// not know them.
func (s *Service) Member(ctx context.Context, id string) (records.MemberRecord, bool, error) {
	ctx, span := tracer.Start(ctx, "Member")
	defer span.End()
	span.SetAttributes(attribute.String("member", id))

	entries, found, err := s.bioguide.FetchMember(ctx, id)
	if err != nil {
		return records.MemberRecord{}, false, fail(span, err)
	}
	if !found {
		return records.MemberRecord{}, false, nil
	}
	members, err := consolidate.Members(entries)
	if err != nil {
		return records.MemberRecord{}, false, fail(span, err)
	}
	for _, m := range members {
		if m.Identifier() == id {
			return m, true, nil
		}
	}
	// members with no congressional term (presidents) have nothing to consolidate
	return records.MemberRecord{}, false, nil
}

// Search returns the members matching criteria. Criteria are validated before any request.
func (s *Service) Search(ctx context.Context, criteria search.Criteria) ([]records.MemberRecord, error) {
	query, err := search.Build(criteria)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()
	span.SetAttributes(attribute.String("criteria", criteria.String()))

	entries, err := s.bioguide.Search(ctx, query)
	if err != nil {
		return nil, fail(span, err)
	}
	members, err := consolidate.Members(entries)
	err = consolidate.Partial(s.tel, report_service_search, err)
	if err != nil {
		return nil, fail(span, err)
	}
	s.tel.ReportCount(report_service_search, int64(len(members)))
	return members, nil
}

// Profile is a member together with their directory entry, when there is one.
type Profile struct {
	Member    records.MemberRecord `json:"member"`
	Directory *govinfo.Entry       `json:"directory"`
}

// Profile looks a member up and narrows the directory down to their entry. A directory miss is
// not an error, neither are members the directory never covered.
func (s *Service) Profile(ctx context.Context, id string) (Profile, bool, error) {
	member, found, err := s.Member(ctx, id)
	if err != nil || !found {
		return Profile{}, found, err
	}
	profile := Profile{Member: member}
	if s.cfg.withoutDirectory {
		return profile, true, nil
	}

	entry, found, err := s.MemberDirectory(ctx, member)
	switch {
	case failure.Is(err, failure.KindNotSupported):
		s.tel.ReportDebug("member predates the directory", id)
	case err != nil:
		return Profile{}, false, err
	case found:
		profile.Directory = &entry
	}
	return profile, true, nil
}
