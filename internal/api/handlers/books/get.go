package books

import (
	"net/http"

	"github.com/5w1tchy/ai-books-api/internal/api/apperr"
	"github.com/5w1tchy/ai-books-api/internal/api/httpx"
	"github.com/5w1tchy/ai-books-api/internal/validate"
)

// GET /books/{id}
func get(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validate.BookID(r.PathValue("id"))
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}

		b, err := d.Store.Get(r.Context(), id)
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}
		httpx.OK(w, b)
	}
}
