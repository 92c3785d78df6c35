// Package store keeps consolidated records in sqlite so batch callers can accumulate results
// across runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "embed"

	"github.com/z3c0/vistos-legacy/internal/consolidate"
	"github.com/z3c0/vistos-legacy/internal/records"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db  *sql.DB
	qry *Queries
}

// Open opens (and migrates) the database at path, an empty path opens an in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a different database
	db.SetMaxOpenConns(1)

	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, qry: New(db)}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) withTx(ctx context.Context, fn func(qry *Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = fn(s.qry.WithTx(tx))
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

func loadMember(ctx context.Context, qry *Queries, id string) (records.MemberRecord, bool, error) {
	fields, err := qry.GetMember(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return records.MemberRecord{}, false, nil
	}
	if err != nil {
		return records.MemberRecord{}, false, err
	}
	termFields, err := qry.GetTerms(ctx, id)
	if err != nil {
		return records.MemberRecord{}, false, err
	}
	terms := make([]records.TermRecord, 0, len(termFields))
	for _, f := range termFields {
		term, err := records.NewTerm(f)
		if err != nil {
			return records.MemberRecord{}, false, err
		}
		terms = append(terms, term)
	}
	member, err := records.NewMember(fields, terms)
	if err != nil {
		return records.MemberRecord{}, false, err
	}
	return member, true, nil
}

// saveMembers merges members with what is already stored. Fields of the new record win, stored
// fields only fill its blanks.
func saveMembers(ctx context.Context, qry *Queries, members []records.MemberRecord) error {
	var stored []records.MemberRecord
	for _, m := range members {
		existing, ok, err := loadMember(ctx, qry, m.Identifier())
		if err != nil {
			return err
		}
		if ok {
			stored = append(stored, existing)
		}
	}
	merged, err := consolidate.Merge(members, stored)
	if err != nil {
		return err
	}

	for _, m := range merged {
		err := qry.UpsertMember(ctx, m.Fields())
		if err != nil {
			return err
		}
		err = qry.DeleteTerms(ctx, m.Identifier())
		if err != nil {
			return err
		}
		for _, t := range m.Terms() {
			err := qry.InsertTerm(ctx, m.Identifier(), t.Fields())
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveMembers stores members, merging their terms into any already stored.
func (s *Store) SaveMembers(ctx context.Context, members []records.MemberRecord) error {
	return s.withTx(ctx, func(qry *Queries) error {
		return saveMembers(ctx, qry, members)
	})
}

// SaveCongress stores a congress, replacing its member list.
func (s *Store) SaveCongress(ctx context.Context, c records.CongressRecord) error {
	return s.withTx(ctx, func(qry *Queries) error {
		err := qry.UpsertCongress(ctx, c.Identity())
		if err != nil {
			return err
		}
		members := c.Members()
		err = saveMembers(ctx, qry, members)
		if err != nil {
			return err
		}
		err = qry.DeleteCongressMembers(ctx, c.Number())
		if err != nil {
			return err
		}
		for i, m := range members {
			err := qry.InsertCongressMember(ctx, c.Number(), m.Identifier(), i)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Member returns false when the member was never stored.
func (s *Store) Member(ctx context.Context, id string) (records.MemberRecord, bool, error) {
	return loadMember(ctx, s.qry, id)
}

// Congress returns false when the congress was never stored.
func (s *Store) Congress(ctx context.Context, number int) (records.CongressRecord, bool, error) {
	identity, err := s.qry.GetCongress(ctx, number)
	if errors.Is(err, sql.ErrNoRows) {
		return records.CongressRecord{}, false, nil
	}
	if err != nil {
		return records.CongressRecord{}, false, err
	}

	ids, err := s.qry.GetCongressMembers(ctx, number)
	if err != nil {
		return records.CongressRecord{}, false, err
	}
	members := make([]records.MemberRecord, 0, len(ids))
	for _, id := range ids {
		m, ok, err := loadMember(ctx, s.qry, id)
		if err != nil {
			return records.CongressRecord{}, false, err
		}
		if !ok {
			return records.CongressRecord{}, false, fmt.Errorf("congress %d lists unknown member %s", number, id)
		}
		members = append(members, m)
	}

	record, err := records.NewCongress(identity, members)
	if err != nil {
		return records.CongressRecord{}, false, err
	}
	return record, true, nil
}
