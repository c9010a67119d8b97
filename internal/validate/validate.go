package validate

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrInvalid    = errors.New("invalid")
	publishDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// FieldError names the offending field and the constraint it violated.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`    // e.g. "required", "not_null", "type", "gt", "pattern", "min_length"
	Message string `json:"message"` // human readable
}

// Error collects field-level failures. It is the ValidationError of the API.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return ErrInvalid }

// Collector accumulates field errors; the first error per field wins.
type Collector struct {
	fields []FieldError
	seen   map[string]struct{}
}

func (c *Collector) Add(field, code, msg string) {
	if c.seen == nil {
		c.seen = map[string]struct{}{}
	}
	if _, ok := c.seen[field]; ok {
		return
	}
	c.seen[field] = struct{}{}
	c.fields = append(c.fields, FieldError{Field: field, Code: code, Message: msg})
}

func (c *Collector) Check(ok bool, field, code, msg string) {
	if !ok {
		c.Add(field, code, msg)
	}
}

// Err returns nil when nothing was collected, otherwise an *Error sorted by field.
func (c *Collector) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	out := append([]FieldError(nil), c.fields...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return &Error{Fields: out}
}

// Single builds a one-field validation error.
func Single(field, code, msg string) error {
	return &Error{Fields: []FieldError{{Field: field, Code: code, Message: msg}}}
}

// PublishDate reports whether s has the YYYY-MM-DD shape. Calendar validity is not checked.
func PublishDate(s string) bool { return publishDateRe.MatchString(s) }

// Paging parses skip/limit query values. Empty values take the defaults.
func Paging(skipRaw, limitRaw string) (offset, limit int, err error) {
	var c Collector
	offset, limit = 0, DefaultLimit

	if s := strings.TrimSpace(skipRaw); s != "" {
		v, perr := strconv.Atoi(s)
		switch {
		case perr != nil:
			c.Add("skip", "type", "must be an integer")
		case v < 0:
			c.Add("skip", "ge", "must be greater than or equal to 0")
		default:
			offset = v
		}
	}
	if s := strings.TrimSpace(limitRaw); s != "" {
		v, perr := strconv.Atoi(s)
		switch {
		case perr != nil:
			c.Add("limit", "type", "must be an integer")
		case v <= 0:
			c.Add("limit", "gt", "must be greater than 0")
		case v > MaxLimit:
			c.Add("limit", "le", fmt.Sprintf("must be less than or equal to %d", MaxLimit))
		default:
			limit = v
		}
	}
	if err := c.Err(); err != nil {
		return 0, 0, err
	}
	return offset, limit, nil
}

// BookID parses a path id. Any base-10 int64 is syntactically valid; ids
// that were never assigned simply resolve to not found.
func BookID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, Single("id", "type", "must be an integer")
	}
	return id, nil
}
