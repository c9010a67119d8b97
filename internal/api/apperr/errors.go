package apperr

import (
	"errors"
	"log/slog"
	"net/http"

	storebooks "github.com/5w1tchy/ai-books-api/internal/store/books"
	"github.com/5w1tchy/ai-books-api/internal/validate"
)

var (
	// ErrEmptyUpdate: a replace body carried no effective fields.
	ErrEmptyUpdate = errors.New("request body cannot be empty for an update")
	// ErrIntegrity: a write succeeded but the store disagrees with it afterwards.
	ErrIntegrity = errors.New("integrity anomaly")
)

// Handle maps err onto a problem response. Server-side failures are logged
// with the request id; client errors are not.
func Handle(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var verr *validate.Error
	var maxErr *http.MaxBytesError

	switch {
	case errors.As(err, &verr):
		Write(w, r, Problem{
			Status:      http.StatusUnprocessableEntity,
			Title:       "Validation failed",
			FieldErrors: verr.Fields,
		})
	case errors.As(err, &maxErr):
		WriteStatus(w, r, http.StatusRequestEntityTooLarge, "Payload Too Large", "request body too large")
	case errors.Is(err, storebooks.ErrNotFound):
		WriteStatus(w, r, http.StatusNotFound, "Not Found", "book not found")
	case errors.Is(err, ErrEmptyUpdate):
		WriteStatus(w, r, http.StatusBadRequest, "Bad Request", ErrEmptyUpdate.Error())
	case errors.Is(err, ErrIntegrity):
		logServerError(r, log, err)
		WriteStatus(w, r, http.StatusInternalServerError, "Internal Server Error", err.Error())
	case errors.Is(err, storebooks.ErrUnavailable):
		logServerError(r, log, err)
		Write(w, r, Problem{Status: http.StatusInternalServerError, Title: "Store unavailable"})
	default:
		if p, ok := FromPG(err); ok {
			if p.Status >= http.StatusInternalServerError {
				logServerError(r, log, err)
			}
			Write(w, r, p)
			return
		}
		logServerError(r, log, err)
		Write(w, r, Problem{Status: http.StatusInternalServerError, Title: "Internal Server Error"})
	}
}

func logServerError(r *http.Request, log *slog.Logger, err error) {
	if log == nil {
		log = slog.Default()
	}
	log.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", r.Header.Get("X-Request-ID")),
	)
}
