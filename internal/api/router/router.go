package router

import (
	"log/slog"
	"net/http"

	"github.com/5w1tchy/ai-books-api/internal/api/handlers"
	"github.com/5w1tchy/ai-books-api/internal/api/handlers/books"
)

type Deps struct {
	Store  BookStore
	Covers books.CoverStorage // optional
	Log    *slog.Logger
}

// BookStore is the record store plus the health probe.
type BookStore interface {
	books.Store
	handlers.Pinger
}

func Router(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	mux := http.NewServeMux()

	// Root
	mux.HandleFunc("GET /{$}", handlers.RootHandler)
	mux.Handle("GET /healthz", handlers.Health(d.Store, d.Log))

	books.Register(mux, books.Deps{
		Store:  d.Store,
		Log:    d.Log,
		Covers: d.Covers,
	})

	return mux
}
