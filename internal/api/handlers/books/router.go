package books

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/5w1tchy/ai-books-api/internal/models"
	storebooks "github.com/5w1tchy/ai-books-api/internal/store/books"
)

// Store is the record store as seen by the handlers.
type Store interface {
	List(ctx context.Context, offset, limit int) ([]models.Book, error)
	Get(ctx context.Context, id int64) (models.Book, error)
	Insert(ctx context.Context, f storebooks.Fields) (int64, error)
	Update(ctx context.Context, id int64, f storebooks.Fields) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type Deps struct {
	Store  Store
	Log    *slog.Logger
	Covers CoverStorage // nil disables cover uploads
}

// Register mounts the book routes on mux.
func Register(mux *http.ServeMux, d Deps) {
	if d.Log == nil {
		d.Log = slog.Default()
	}

	mux.Handle("GET /books", list(d))
	mux.Handle("POST /books", create(d))
	mux.Handle("GET /books/{id}", get(d))
	mux.Handle("PUT /books/{id}", put(d))
	mux.Handle("DELETE /books/{id}", del(d))

	// Keep /books/ -> /books
	mux.HandleFunc("GET /books/{$}", func(w http.ResponseWriter, r *http.Request) {
		target := "/books"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})

	if d.Covers != nil {
		mux.Handle("POST /books/{id}/cover", uploadCover(d))
	}
}
