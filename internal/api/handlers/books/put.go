package books

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/5w1tchy/ai-books-api/internal/api/apperr"
	"github.com/5w1tchy/ai-books-api/internal/api/httpx"
	storebooks "github.com/5w1tchy/ai-books-api/internal/store/books"
	"github.com/5w1tchy/ai-books-api/internal/validate"
)

// PUT /books/{id}
//
// Only the fields present in the body are written; omitted fields keep
// their stored values.
func put(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		id, err := validate.BookID(r.PathValue("id"))
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}
		in, err := validate.DecodeBook(r.Body)
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}

		if _, err := d.Store.Get(r.Context(), id); err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}
		if in.Empty() {
			apperr.Handle(w, r, d.Log, apperr.ErrEmptyUpdate)
			return
		}

		ok, err := d.Store.Update(r.Context(), id, replaceFields(in))
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}
		if !ok {
			apperr.Handle(w, r, d.Log, fmt.Errorf("%w: failed to update book %d", apperr.ErrIntegrity, id))
			return
		}

		b, err := d.Store.Get(r.Context(), id)
		if errors.Is(err, storebooks.ErrNotFound) {
			err = fmt.Errorf("%w: updated book %d disappeared", apperr.ErrIntegrity, id)
		}
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}
		httpx.OK(w, b)
	}
}
