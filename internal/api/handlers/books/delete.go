package books

import (
	"net/http"

	"github.com/5w1tchy/ai-books-api/internal/api/apperr"
	"github.com/5w1tchy/ai-books-api/internal/api/httpx"
	storebooks "github.com/5w1tchy/ai-books-api/internal/store/books"
	"github.com/5w1tchy/ai-books-api/internal/validate"
)

// DELETE /books/{id}
func del(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validate.BookID(r.PathValue("id"))
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}

		ok, err := d.Store.Delete(r.Context(), id)
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}
		if !ok {
			apperr.Handle(w, r, d.Log, storebooks.ErrNotFound)
			return
		}

		d.Log.InfoContext(r.Context(), "book deleted", "book_id", id)
		// No response body on successful delete.
		httpx.NoContent(w)
	}
}
