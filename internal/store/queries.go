package store

import (
	"context"
	"database/sql"

	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/records"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

const upsertMember = `
insert into member (
    identifier, full_name, first_name, middle_name, nickname, last_name, suffix,
    birth_year, death_year, biography
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
on conflict (identifier) do update set
    full_name = excluded.full_name,
    first_name = excluded.first_name,
    middle_name = excluded.middle_name,
    nickname = excluded.nickname,
    last_name = excluded.last_name,
    suffix = excluded.suffix,
    birth_year = excluded.birth_year,
    death_year = excluded.death_year,
    biography = excluded.biography
`

func (q *Queries) UpsertMember(ctx context.Context, f records.MemberFields) error {
	_, err := q.db.ExecContext(
		ctx, upsertMember,
		f.Identifier, f.FullName, f.FirstName,
		nullable(f.MiddleName), nullable(f.Nickname),
		f.LastName, nullable(f.Suffix),
		nullable(f.BirthYear), nullable(f.DeathYear), nullable(f.Biography),
	)
	return err
}

const deleteTerms = `delete from term where member = ?`

func (q *Queries) DeleteTerms(ctx context.Context, member string) error {
	_, err := q.db.ExecContext(ctx, deleteTerms, member)
	return err
}

const insertTerm = `
insert into term (
    member, congress, chamber, start_year, end_year, state, party, position, house_speaker
) values (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertTerm(ctx context.Context, member string, t records.TermFields) error {
	end := sql.NullInt64{Int64: int64(t.EndYear), Valid: t.EndYear != 0}
	_, err := q.db.ExecContext(
		ctx, insertTerm,
		member, t.Congress, string(t.Chamber), t.StartYear, end,
		t.State, t.Party, t.Position, t.HouseSpeaker,
	)
	return err
}

const getMember = `
select
    identifier, full_name, first_name, middle_name, nickname, last_name, suffix,
    birth_year, death_year, biography
from member where identifier = ?
`

// GetMember returns sql.ErrNoRows when there is no such member.
func (q *Queries) GetMember(ctx context.Context, id string) (records.MemberFields, error) {
	var f records.MemberFields
	var middle, nickname, suffix, birth, death, bio sql.NullString
	err := q.db.QueryRowContext(ctx, getMember, id).Scan(
		&f.Identifier, &f.FullName, &f.FirstName, &middle, &nickname, &f.LastName, &suffix,
		&birth, &death, &bio,
	)
	if err != nil {
		return records.MemberFields{}, err
	}
	f.MiddleName = middle.String
	f.Nickname = nickname.String
	f.Suffix = suffix.String
	f.BirthYear = birth.String
	f.DeathYear = death.String
	f.Biography = bio.String
	return f, nil
}

const getTerms = `
select congress, chamber, start_year, end_year, state, party, position, house_speaker
from term where member = ?
order by start_year, congress, chamber
`

func (q *Queries) GetTerms(ctx context.Context, member string) ([]records.TermFields, error) {
	rows, err := q.db.QueryContext(ctx, getTerms, member)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []records.TermFields
	for rows.Next() {
		var t records.TermFields
		var chamber string
		var end sql.NullInt64
		err := rows.Scan(&t.Congress, &chamber, &t.StartYear, &end, &t.State, &t.Party, &t.Position, &t.HouseSpeaker)
		if err != nil {
			return nil, err
		}
		t.Chamber = records.Chamber(chamber)
		t.EndYear = int(end.Int64)
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

const upsertCongress = `
insert into congress (number, start_year, end_year) values (?, ?, ?)
on conflict (number) do update set
    start_year = excluded.start_year,
    end_year = excluded.end_year
`

func (q *Queries) UpsertCongress(ctx context.Context, identity congress.Identity) error {
	_, err := q.db.ExecContext(ctx, upsertCongress, identity.Number, identity.StartYear, identity.EndYear)
	return err
}

const deleteCongressMembers = `delete from congress_member where congress = ?`

func (q *Queries) DeleteCongressMembers(ctx context.Context, number int) error {
	_, err := q.db.ExecContext(ctx, deleteCongressMembers, number)
	return err
}

const insertCongressMember = `insert into congress_member (congress, member, seq) values (?, ?, ?)`

func (q *Queries) InsertCongressMember(ctx context.Context, number int, member string, seq int) error {
	_, err := q.db.ExecContext(ctx, insertCongressMember, number, member, seq)
	return err
}

const getCongress = `select number, start_year, end_year from congress where number = ?`

// GetCongress returns sql.ErrNoRows when the congress was never saved.
func (q *Queries) GetCongress(ctx context.Context, number int) (congress.Identity, error) {
	var identity congress.Identity
	err := q.db.QueryRowContext(ctx, getCongress, number).Scan(&identity.Number, &identity.StartYear, &identity.EndYear)
	return identity, err
}

const getCongressMembers = `select member from congress_member where congress = ? order by seq`

func (q *Queries) GetCongressMembers(ctx context.Context, number int) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getCongressMembers, number)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		err := rows.Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
