package books

import (
	"context"
	"database/sql"
	"errors"

	"github.com/5w1tchy/ai-books-api/internal/models"
	"github.com/5w1tchy/ai-books-api/internal/store/dbx"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
)

// List returns at most limit books ordered by ascending id, skipping offset rows.
func (s *Store) List(ctx context.Context, offset, limit int) (out []models.Book, err error) {
	ctx, span := startSpan(ctx, "list", attribute.Int("offset", offset), attribute.Int("limit", limit))
	defer func() { endSpan(span, err) }()

	out = make([]models.Book, 0, limit)
	err = dbx.WithSession(ctx, s.db, func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &out, listSQL, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the book with the given id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (b models.Book, err error) {
	ctx, span := startSpan(ctx, "get", attribute.Int64("book.id", id))
	defer func() { endSpan(span, err) }()

	err = dbx.WithSession(ctx, s.db, func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &b, getSQL, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	if err != nil {
		return models.Book{}, err
	}
	return b, nil
}
