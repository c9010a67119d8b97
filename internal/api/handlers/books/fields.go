package books

import (
	"github.com/5w1tchy/ai-books-api/internal/models"
	storebooks "github.com/5w1tchy/ai-books-api/internal/store/books"
)

// insertFields keeps only present values; explicit nulls fall back to the column default.
func insertFields(in models.BookInput) storebooks.Fields {
	f := storebooks.Fields{}
	each(in, func(c storebooks.Column, null bool, v any) {
		if !null {
			f[c] = v
		}
	})
	return f
}

// replaceFields keeps every supplied field; explicit nulls clear the column.
func replaceFields(in models.BookInput) storebooks.Fields {
	f := storebooks.Fields{}
	each(in, func(c storebooks.Column, null bool, v any) {
		if null {
			f[c] = nil
			return
		}
		f[c] = v
	})
	return f
}

// each visits the supplied fields of in.
func each(in models.BookInput, fn func(c storebooks.Column, null bool, v any)) {
	str := func(c storebooks.Column, fv models.Field[string]) {
		if fv.Set {
			fn(c, fv.Null, fv.Value)
		}
	}
	str(storebooks.ColTitle, in.Title)
	str(storebooks.ColAuthor, in.Author)
	str(storebooks.ColPublisher, in.Publisher)
	if in.Price.Set {
		fn(storebooks.ColPrice, in.Price.Null, in.Price.Value)
	}
	str(storebooks.ColPublishDate, in.PublishDate)
	str(storebooks.ColISBN, in.ISBN)
	str(storebooks.ColCoverURL, in.CoverURL)
}
