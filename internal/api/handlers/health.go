package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/5w1tchy/ai-books-api/internal/api/apperr"
	"github.com/5w1tchy/ai-books-api/internal/api/httpx"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GET /healthz
func Health(store Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.WarnContext(r.Context(), "health: store ping failed", slog.Any("error", err))
			apperr.WriteStatus(w, r, http.StatusServiceUnavailable, "Service Unavailable", "store unreachable")
			return
		}
		httpx.OK(w, map[string]string{"status": "ok"})
	}
}
