package books

import (
	"net/http"

	"github.com/5w1tchy/ai-books-api/internal/api/apperr"
	"github.com/5w1tchy/ai-books-api/internal/api/httpx"
	"github.com/5w1tchy/ai-books-api/internal/validate"
)

// GET /books?skip=&limit=
func list(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		offset, limit, err := validate.Paging(q.Get("skip"), q.Get("limit"))
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}

		out, err := d.Store.List(r.Context(), offset, limit)
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}
		httpx.OK(w, out)
	}
}
