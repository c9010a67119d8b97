package books

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/5w1tchy/ai-books-api/internal/api/apperr"
	"github.com/5w1tchy/ai-books-api/internal/api/httpx"
	storebooks "github.com/5w1tchy/ai-books-api/internal/store/books"
	"github.com/5w1tchy/ai-books-api/internal/validate"
)

// POST /books
func create(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		in, err := validate.DecodeBook(r.Body)
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}
		if err := validate.RequireCreate(in); err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}

		id, err := d.Store.Insert(r.Context(), insertFields(in))
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}

		b, err := d.Store.Get(r.Context(), id)
		if errors.Is(err, storebooks.ErrNotFound) {
			err = fmt.Errorf("%w: failed to retrieve newly created book %d", apperr.ErrIntegrity, id)
		}
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}

		d.Log.InfoContext(r.Context(), "book created", "book_id", id)
		w.Header().Set("Location", "/books/"+strconv.FormatInt(id, 10))
		httpx.Created(w, b)
	}
}
