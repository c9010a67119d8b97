package books

import (
	"errors"

	"github.com/5w1tchy/ai-books-api/internal/store/dbx"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnknownColumn = errors.New("unknown column")
	ErrUnavailable   = dbx.ErrUnavailable
)

// Column is a writable column of the books table. Only the constants below
// are ever interpolated into statement text.
type Column string

const (
	ColTitle       Column = "title"
	ColAuthor      Column = "author"
	ColPublisher   Column = "publisher"
	ColPrice       Column = "price"
	ColPublishDate Column = "publish_date"
	ColISBN        Column = "isbn"
	ColCoverURL    Column = "cover_url"
)

var writable = map[Column]struct{}{
	ColTitle:       {},
	ColAuthor:      {},
	ColPublisher:   {},
	ColPrice:       {},
	ColPublishDate: {},
	ColISBN:        {},
	ColCoverURL:    {},
}

// Writable reports whether c may appear in an insert or update.
func Writable(c Column) bool {
	_, ok := writable[c]
	return ok
}

// Fields maps columns to values. A nil value means SQL NULL.
type Fields map[Column]any
