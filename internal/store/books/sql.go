package books

import (
	"errors"
	"fmt"
	"sort"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

const (
	table      = "books"
	colID      = "id"
	selectCols = `id, title, author, publisher, price, publish_date, isbn, cover_url, created_at`

	listSQL   = `SELECT ` + selectCols + ` FROM books ORDER BY id ASC LIMIT $1 OFFSET $2`
	getSQL    = `SELECT ` + selectCols + ` FROM books WHERE id = $1`
	deleteSQL = `DELETE FROM books WHERE id = $1`

	schemaSQL = `
CREATE TABLE IF NOT EXISTS books (
	id           BIGSERIAL PRIMARY KEY,
	title        TEXT NOT NULL,
	author       TEXT NOT NULL,
	publisher    TEXT,
	price        INTEGER NOT NULL CONSTRAINT books_price_check CHECK (price > 0),
	publish_date TEXT,
	isbn         TEXT,
	cover_url    TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`
)

var (
	dialect = goqu.Dialect("postgres")

	ErrNoFields = errors.New("no fields to write")
)

// record converts fields into a goqu record, rejecting anything outside the
// writable allow-list. With skipNil, nil values are dropped instead of
// becoming NULL.
func record(f Fields, skipNil bool) (goqu.Record, error) {
	rec := make(goqu.Record, len(f))
	for c, v := range f {
		if !Writable(c) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, string(c))
		}
		if v == nil && skipNil {
			continue
		}
		rec[string(c)] = v
	}
	if len(rec) == 0 {
		return nil, ErrNoFields
	}
	return rec, nil
}

func buildInsert(f Fields) (string, []any, error) {
	rec, err := record(f, true)
	if err != nil {
		return "", nil, err
	}
	return dialect.Insert(table).
		Prepared(true).
		Rows(rec).
		Returning(goqu.C(colID)).
		ToSQL()
}

func buildUpdate(id int64, f Fields) (string, []any, error) {
	rec, err := record(f, false)
	if err != nil {
		return "", nil, err
	}
	return dialect.Update(table).
		Prepared(true).
		Set(rec).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
}

// columnNames is used for span attributes and logs.
func columnNames(f Fields) []string {
	out := make([]string, 0, len(f))
	for c := range f {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}
