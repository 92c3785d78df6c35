package service

import (
	"context"

	"github.com/z3c0/vistos-legacy/internal/consolidate"
	"github.com/z3c0/vistos-legacy/internal/records"
	"github.com/z3c0/vistos-legacy/internal/scrapers/govinfo"
	"go.opentelemetry.io/otel/attribute"
)

func (s *Service) directory() (DirectoryAPI, error) {
	if s.cfg.directory == nil {
		return nil, ErrNoDirectory
	}
	return s.cfg.directory, nil
}

// CongressDirectory returns the directory package of a congress.
func (s *Service) CongressDirectory(ctx context.Context, selector *int) (govinfo.Package, error) {
	api, err := s.directory()
	if err != nil {
		return govinfo.Package{}, err
	}
	identity, err := s.resolver.Resolve(selector)
	if err != nil {
		return govinfo.Package{}, err
	}

	ctx, span := tracer.Start(ctx, "CongressDirectory")
	defer span.End()
	span.SetAttributes(attribute.Int("congress", identity.Number))

	pkg, err := api.FetchCongress(ctx, identity, s.cfg.directoryKey)
	if err != nil {
		return govinfo.Package{}, fail(span, err)
	}
	s.tel.ReportCount(report_service_directory, int64(len(pkg.Entries)))
	return pkg, nil
}

// DirectoryMembers consolidates the directory package of a congress into a congress record,
// keeping only the entries that name their member.
func (s *Service) DirectoryMembers(ctx context.Context, selector *int) (records.CongressRecord, error) {
	pkg, err := s.CongressDirectory(ctx, selector)
	if err != nil {
		return records.CongressRecord{}, err
	}

	record, err := consolidate.Congress(pkg.Identity, pkg.RawEntries())
	err = consolidate.Partial(s.tel, report_service_directory, err)
	if err != nil {
		s.tel.ReportBroken(report_service_directory, err, pkg.PackageId)
		return records.CongressRecord{}, err
	}
	if skipped := len(pkg.Entries) - len(record.Members()); skipped > 0 {
		s.tel.ReportDebug("directory entries without a member identifier", pkg.PackageId, skipped)
	}
	return record, nil
}

// MemberDirectory narrows the directory down to one member's entry. The second return is false
// when no entry could be matched to them, the whole-congress package is then the fallback.
func (s *Service) MemberDirectory(ctx context.Context, member records.MemberRecord) (govinfo.Entry, bool, error) {
	api, err := s.directory()
	if err != nil {
		return govinfo.Entry{}, false, err
	}

	ctx, span := tracer.Start(ctx, "MemberDirectory")
	defer span.End()
	span.SetAttributes(attribute.String("member", member.Identifier()))

	entry, found, err := api.FetchMember(ctx, member, s.cfg.directoryKey)
	if err != nil {
		return govinfo.Entry{}, false, fail(span, err)
	}
	if !found {
		s.tel.ReportWarning(report_service_directory, "no directory entry matched", member.Identifier())
	}
	return entry, found, nil
}
