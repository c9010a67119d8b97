package middlewares

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/5w1tchy/ai-books-api/internal/api/apperr"
)

// CORS allows the configured origins. A "*" entry allows any origin without
// credentials. Requests without an Origin header pass through untouched.
func CORS(origins []string, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	wildcard := slices.Contains(origins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")

			switch {
			case wildcard:
				h.Set("Access-Control-Allow-Origin", "*")
			case slices.Contains(origins, origin):
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
			default:
				log.WarnContext(r.Context(), "cors: origin blocked",
					slog.String("origin", origin),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				apperr.WriteStatus(w, r, http.StatusForbidden, "Forbidden", "origin not allowed")
				return
			}

			h.Set("Access-Control-Expose-Headers",
				"Location, X-Request-ID, X-RateLimit-Policy, X-RateLimit-Limit, X-RateLimit-Remaining, Retry-After, X-Response-Time")

			// Preflight
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				h.Set("Access-Control-Max-Age", "3600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
