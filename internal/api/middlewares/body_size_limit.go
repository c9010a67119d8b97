package middlewares

import (
	"net/http"
	"path"

	"github.com/5w1tchy/ai-books-api/internal/api/apperr"
)

// DefaultMaxBodySize applies when BodySizeLimit is given a non-positive limit.
const DefaultMaxBodySize int64 = 1 << 20

// BodySizeLimit caps request bodies on writes. Handlers see
// *http.MaxBytesError once the cap is crossed and answer 413. Requests whose
// path matches one of the exempt path.Match patterns are passed through
// untouched; those handlers enforce their own cap (cover uploads).
func BodySizeLimit(limit int64, exempt ...string) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	skip := func(p string) bool {
		for _, pattern := range exempt {
			if ok, _ := path.Match(pattern, p); ok {
				return true
			}
		}
		return false
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}
			if skip(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > limit {
				apperr.Handle(w, r, nil, &http.MaxBytesError{Limit: limit})
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
