package apperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Map well-known constraint names to fields (extend as you add constraints)
var constraintField = map[string]string{
	"books_pkey":        "id",
	"books_price_check": "price",
}

var columns = []string{"publish_date", "cover_url", "publisher", "title", "author", "price", "isbn", "id"}

// Guess a field from a column name present in PG error detail
func fieldFromDetail(detail string) string {
	for _, k := range columns {
		if strings.Contains(detail, k) {
			return k
		}
	}
	return ""
}

// pgFields is the driver-neutral subset of a server error.
type pgFields struct {
	code, detail, constraint, column string
}

func asPG(err error) (pgFields, bool) {
	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		return pgFields{pg.Code, pg.Detail, pg.ConstraintName, pg.ColumnName}, true
	}
	var pqe *pq.Error
	if errors.As(err, &pqe) {
		return pgFields{string(pqe.Code), pqe.Detail, pqe.Constraint, pqe.Column}, true
	}
	return pgFields{}, false
}

// FromPG maps a postgres server error (pgx or lib/pq) to a Problem.
// Returns (Problem, true) if mapped.
func FromPG(err error) (Problem, bool) {
	pg, ok := asPG(err)
	if !ok {
		return Problem{}, false
	}

	p := Problem{
		Title:  "Database error",
		Status: http.StatusInternalServerError,
	}

	field := constraintField[pg.constraint]
	if field == "" && pg.column != "" {
		field = pg.column
	}
	if field == "" && pg.detail != "" {
		field = fieldFromDetail(pg.detail)
	}
	if field == "" {
		field = "field"
	}

	switch pg.code {
	case "23505": // unique_violation
		p.Status = http.StatusConflict
		p.Title = "Conflict"
		p.FieldErrors = []FieldError{{Field: field, Code: "unique", Message: "value already exists"}}
	case "23502": // not_null_violation
		p.Status = http.StatusBadRequest
		p.Title = "Bad Request"
		p.FieldErrors = []FieldError{{Field: field, Code: "not_null", Message: "required field is missing"}}
	case "23514": // check_violation
		p.Status = http.StatusUnprocessableEntity
		p.Title = "Unprocessable Entity"
		p.FieldErrors = []FieldError{{Field: field, Code: "check", Message: "constraint failed"}}
	case "22P02": // invalid_text_representation
		p.Status = http.StatusBadRequest
		p.Title = "Bad Request"
		p.FieldErrors = []FieldError{{Field: field, Code: "invalid", Message: "invalid format"}}
	case "22001": // string_data_right_truncation
		p.Status = http.StatusBadRequest
		p.Title = "Bad Request"
		p.FieldErrors = []FieldError{{Field: field, Code: "too_long", Message: "value is too long"}}
	case "22003": // numeric_value_out_of_range
		p.Status = http.StatusUnprocessableEntity
		p.Title = "Unprocessable Entity"
		p.FieldErrors = []FieldError{{Field: field, Code: "out_of_range", Message: "value is out of range"}}
	case "40001", "40P01": // serialization_failure, deadlock_detected
		p.Status = http.StatusConflict
		p.Title = "Conflict"
		p.Detail = "conflicting write, please retry"
		p.Retryable = true
	default:
		// Keep default 500 with minimal detail
	}

	return p, true
}
