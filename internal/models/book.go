package models

import "time"

// Book is the output record. Nullable columns are pointers and serialize as null.
type Book struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Author      string    `json:"author" db:"author"`
	Publisher   *string   `json:"publisher" db:"publisher"`
	Price       int64     `json:"price" db:"price"`
	PublishDate *string   `json:"publish_date" db:"publish_date"`
	ISBN        *string   `json:"isbn" db:"isbn"`
	CoverURL    *string   `json:"cover_url" db:"cover_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Field is a tri-state input value: absent, explicit null, or present.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Present reports whether the field carries a non-null value.
func (f Field[T]) Present() bool { return f.Set && !f.Null }

// Some wraps a present, non-null value.
func Some[T any](v T) Field[T] { return Field[T]{Set: true, Value: v} }

// Null is an explicitly supplied null.
func Null[T any]() Field[T] { return Field[T]{Set: true, Null: true} }

// BookInput is the create-or-replace body. Every field is optional at the
// syntactic level; handlers decide which ones are mandatory.
type BookInput struct {
	Title       Field[string]
	Author      Field[string]
	Publisher   Field[string]
	Price       Field[int64]
	PublishDate Field[string]
	ISBN        Field[string]
	CoverURL    Field[string]
}

// Empty reports whether no field was supplied at all.
func (in BookInput) Empty() bool {
	return !in.Title.Set && !in.Author.Set && !in.Publisher.Set && !in.Price.Set &&
		!in.PublishDate.Set && !in.ISBN.Set && !in.CoverURL.Set
}
