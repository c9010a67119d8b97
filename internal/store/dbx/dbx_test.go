package dbx_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/5w1tchy/ai-books-api/internal/store/dbx"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func TestMapError(t *testing.T) {
	unavailable := []error{
		driver.ErrBadConn,
		&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
		&pgconn.PgError{Code: "57P01"},
		&pgconn.PgError{Code: "08006"},
		fmt.Errorf("query: %w", &pq.Error{Code: "53300"}),
	}
	for _, err := range unavailable {
		if got := dbx.MapError(err); !errors.Is(got, dbx.ErrUnavailable) {
			t.Errorf("%v: want ErrUnavailable, got %v", err, got)
		}
	}

	passthrough := []error{
		sql.ErrNoRows,
		&pgconn.PgError{Code: "23514"},
		&pq.Error{Code: "23505"},
		errors.New("other"),
	}
	for _, err := range passthrough {
		if got := dbx.MapError(err); got != err {
			t.Errorf("%v: want unchanged, got %v", err, got)
		}
	}

	if dbx.MapError(nil) != nil {
		t.Error("nil must stay nil")
	}
}

type failingSessioner struct{}

func (failingSessioner) Connx(context.Context) (*sqlx.Conn, error) {
	return nil, errors.New("too many clients")
}

func TestWithSession_AcquireFailure(t *testing.T) {
	called := false
	err := dbx.WithSession(t.Context(), failingSessioner{}, func(*sqlx.Conn) error {
		called = true
		return nil
	})
	if !errors.Is(err, dbx.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
	if called {
		t.Fatal("fn must not run without a session")
	}
}

func TestWithSession_ReleasesConnection(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	xdb := sqlx.NewDb(db, "sqlmock")

	mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))

	err = dbx.WithSession(t.Context(), xdb, func(conn *sqlx.Conn) error {
		_, err := conn.ExecContext(t.Context(), "SELECT 1")
		return err
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n := xdb.Stats().InUse; n != 0 {
		t.Fatalf("want no connection in use after the session, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
