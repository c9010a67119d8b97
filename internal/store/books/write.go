package books

import (
	"context"

	"github.com/5w1tchy/ai-books-api/internal/store/dbx"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
)

// Insert writes the non-nil fields as a new row and returns the assigned id.
// Omitted columns take their schema defaults.
func (s *Store) Insert(ctx context.Context, f Fields) (id int64, err error) {
	ctx, span := startSpan(ctx, "insert", attribute.StringSlice("columns", columnNames(f)))
	defer func() { endSpan(span, err) }()

	q, args, err := buildInsert(f)
	if err != nil {
		return 0, err
	}
	err = dbx.WithSession(ctx, s.db, func(conn *sqlx.Conn) error {
		return conn.QueryRowxContext(ctx, q, args...).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update sets exactly the given columns on row id. It reports true only when
// a single row was affected; false covers both a missing id and anything else
// that left the row untouched.
func (s *Store) Update(ctx context.Context, id int64, f Fields) (ok bool, err error) {
	ctx, span := startSpan(ctx, "update", attribute.Int64("book.id", id), attribute.StringSlice("columns", columnNames(f)))
	defer func() { endSpan(span, err) }()

	q, args, err := buildUpdate(id, f)
	if err != nil {
		return false, err
	}
	var n int64
	err = dbx.WithSession(ctx, s.db, func(conn *sqlx.Conn) error {
		res, err := conn.ExecContext(ctx, q, args...)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Delete removes row id and reports whether exactly one row went away.
func (s *Store) Delete(ctx context.Context, id int64) (ok bool, err error) {
	ctx, span := startSpan(ctx, "delete", attribute.Int64("book.id", id))
	defer func() { endSpan(span, err) }()

	var n int64
	err = dbx.WithSession(ctx, s.db, func(conn *sqlx.Conn) error {
		res, err := conn.ExecContext(ctx, deleteSQL, id)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
