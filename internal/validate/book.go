package validate

import (
	"bytes"
	"io"
	"strings"

	"github.com/5w1tchy/ai-books-api/internal/models"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/text/unicode/norm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var nullLiteral = []byte("null")

// DecodeBook reads a create-or-replace body. Unknown keys are ignored, so
// id and created_at can never reach the store through this path.
func DecodeBook(r io.Reader) (models.BookInput, error) {
	var in models.BookInput

	body, err := io.ReadAll(r)
	if err != nil {
		return in, err
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		return in, Single("body", "required", "request body is required")
	}

	var raw map[string]jsoniter.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return in, Single("body", "invalid", "body must be a JSON object")
	}

	var c Collector
	in.Title = decodeString(&c, raw, "title")
	in.Author = decodeString(&c, raw, "author")
	in.Publisher = decodeString(&c, raw, "publisher")
	in.Price = decodeInt(&c, raw, "price")
	in.PublishDate = decodeString(&c, raw, "publish_date")
	in.ISBN = decodeString(&c, raw, "isbn")
	in.CoverURL = decodeString(&c, raw, "cover_url")

	checkBook(&c, &in)
	if err := c.Err(); err != nil {
		return models.BookInput{}, err
	}
	return in, nil
}

// checkBook applies the field constraints. Title and author must be non-blank
// once trimmed but are kept as sent, apart from NFC normalization.
func checkBook(c *Collector, in *models.BookInput) {
	for _, f := range []struct {
		name string
		v    *models.Field[string]
	}{{"title", &in.Title}, {"author", &in.Author}} {
		if !f.v.Set {
			continue
		}
		if f.v.Null {
			c.Add(f.name, "not_null", "must not be null")
			continue
		}
		f.v.Value = norm.NFC.String(strings.TrimSpace(f.v.Value))
		c.Check(f.v.Value != "", f.name, "min_length", "must not be empty")
	}

	if in.Publisher.Present() {
		in.Publisher.Value = norm.NFC.String(in.Publisher.Value)
	}

	if in.Price.Set {
		if in.Price.Null {
			c.Add("price", "not_null", "must not be null")
		} else {
			c.Check(in.Price.Value > 0, "price", "gt", "must be greater than 0")
		}
	}

	if in.PublishDate.Present() {
		c.Check(PublishDate(in.PublishDate.Value), "publish_date", "pattern", "must match YYYY-MM-DD")
	}
}

// RequireCreate enforces the fields a new record cannot live without.
func RequireCreate(in models.BookInput) error {
	var c Collector
	c.Check(in.Title.Present(), "title", "required", "field required")
	c.Check(in.Author.Present(), "author", "required", "field required")
	c.Check(in.Price.Present(), "price", "required", "field required")
	return c.Err()
}

// isNull reports an explicit JSON null. jsoniter leaves the raw message
// empty for a null value instead of keeping the literal.
func isNull(msg jsoniter.RawMessage) bool {
	trimmed := bytes.TrimSpace(msg)
	return len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral)
}

func decodeString(c *Collector, raw map[string]jsoniter.RawMessage, key string) models.Field[string] {
	msg, ok := raw[key]
	if !ok {
		return models.Field[string]{}
	}
	if isNull(msg) {
		return models.Null[string]()
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		c.Add(key, "type", "must be a string")
		return models.Field[string]{}
	}
	return models.Some(s)
}

func decodeInt(c *Collector, raw map[string]jsoniter.RawMessage, key string) models.Field[int64] {
	msg, ok := raw[key]
	if !ok {
		return models.Field[int64]{}
	}
	if isNull(msg) {
		return models.Null[int64]()
	}
	var n int64
	if err := json.Unmarshal(msg, &n); err != nil {
		c.Add(key, "type", "must be an integer")
		return models.Field[int64]{}
	}
	return models.Some(n)
}
