package books

import (
	"context"

	"github.com/5w1tchy/ai-books-api/internal/store/dbx"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/5w1tchy/ai-books-api/internal/store/books")

// Store is the record store for the books table. Every method runs inside
// its own session; see dbx.WithSession.
type Store struct {
	db dbx.Sessioner
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the books table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return dbx.WithSession(ctx, s.db, func(conn *sqlx.Conn) error {
		_, err := conn.ExecContext(ctx, schemaSQL)
		return err
	})
}

// Ping checks that a session can be opened and answers.
func (s *Store) Ping(ctx context.Context) error {
	return dbx.WithSession(ctx, s.db, func(conn *sqlx.Conn) error {
		return conn.PingContext(ctx)
	})
}

func startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("db.system", "postgresql"),
		attribute.String("db.sql.table", table),
		attribute.String("db.operation", op),
	)
	return tracer.Start(ctx, "books."+op, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
