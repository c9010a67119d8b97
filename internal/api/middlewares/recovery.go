package middlewares

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/5w1tchy/ai-books-api/internal/api/apperr"
)

// Recovery turns a handler panic into a 500 problem response and logs the
// stack. http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recovery(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				rid := GetRequestID(r)
				if rid == "" {
					rid = "unknown"
				}
				log.ErrorContext(r.Context(), "panic recovered",
					slog.String("request_id", rid),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)

				// Don't expose internal errors to client
				w.Header().Set("Connection", "close")
				apperr.Write(w, r, apperr.Problem{Status: http.StatusInternalServerError})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
