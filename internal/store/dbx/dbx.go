package dbx

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrUnavailable marks failures to reach the store at all (StoreUnavailable).
var ErrUnavailable = errors.New("store unavailable")

// Sessioner is satisfied by *sqlx.DB.
type Sessioner interface {
	Connx(ctx context.Context) (*sqlx.Conn, error)
}

// WithSession acquires one dedicated connection, runs fn on it, and releases
// it before returning. Nothing spans more than one session.
func WithSession(ctx context.Context, db Sessioner, fn func(conn *sqlx.Conn) error) error {
	conn, err := db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquire session: %v", ErrUnavailable, err)
	}
	defer conn.Close()
	return MapError(fn(conn))
}

// MapError folds connection-class failures into ErrUnavailable and leaves
// everything else (constraint violations, no rows) untouched.
func MapError(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && isUnavailableClass(pgErr.Code) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && isUnavailableClass(string(pqErr.Code)) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// 08xxx connection exception, 57P0x operator intervention (shutdown), 53xxx insufficient resources.
func isUnavailableClass(code string) bool {
	if len(code) < 2 {
		return false
	}
	switch code[:2] {
	case "08", "53":
		return true
	}
	return len(code) == 5 && code[:4] == "57P0"
}
