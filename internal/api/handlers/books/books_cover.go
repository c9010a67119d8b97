package books

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/5w1tchy/ai-books-api/internal/api/apperr"
	"github.com/5w1tchy/ai-books-api/internal/api/httpx"
	storebooks "github.com/5w1tchy/ai-books-api/internal/store/books"
	"github.com/5w1tchy/ai-books-api/internal/validate"
)

const maxCoverSize = 10 << 20

// CoverStorage is the object store holding cover images.
type CoverStorage interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	DeleteObject(ctx context.Context, key string) error
	ObjectURL(ctx context.Context, key string) (string, error)
}

var coverExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// POST /books/{id}/cover
func uploadCover(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validate.BookID(r.PathValue("id"))
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}
		if _, err := d.Store.Get(ctx, id); err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}

		// The global body cap skips this route; the form overhead gets 1MB on top of the file.
		r.Body = http.MaxBytesReader(w, r.Body, maxCoverSize+1<<20)
		if err := r.ParseMultipartForm(maxCoverSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				apperr.Handle(w, r, d.Log, err)
				return
			}
			apperr.Handle(w, r, d.Log, validate.Single("cover", "invalid", "expected multipart/form-data"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("cover")
		if err != nil {
			apperr.Handle(w, r, d.Log, validate.Single("cover", "required", "missing cover file"))
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		ext, ok := coverExt[contentType]
		if !ok {
			apperr.Handle(w, r, d.Log, validate.Single("cover", "type", "must be png, jpeg or webp"))
			return
		}
		if header.Size > maxCoverSize {
			apperr.Handle(w, r, d.Log, validate.Single("cover", "max_size", "must be at most 10MB"))
			return
		}

		key := fmt.Sprintf("books/covers/%d-%d%s", id, time.Now().Unix(), ext)
		if err := d.Covers.PutObject(ctx, key, contentType, file, header.Size); err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}

		url, err := d.Covers.ObjectURL(ctx, key)
		if err != nil {
			_ = d.Covers.DeleteObject(ctx, key)
			apperr.Handle(w, r, d.Log, err)
			return
		}

		ok, err = d.Store.Update(ctx, id, storebooks.Fields{storebooks.ColCoverURL: url})
		if err != nil || !ok {
			// Don't leave orphaned objects behind.
			_ = d.Covers.DeleteObject(ctx, key)
			if err == nil {
				err = storebooks.ErrNotFound
			}
			apperr.Handle(w, r, d.Log, err)
			return
		}

		b, err := d.Store.Get(ctx, id)
		if errors.Is(err, storebooks.ErrNotFound) {
			err = fmt.Errorf("%w: book %d disappeared after cover upload", apperr.ErrIntegrity, id)
		}
		if err != nil {
			apperr.Handle(w, r, d.Log, err)
			return
		}

		d.Log.InfoContext(ctx, "book cover uploaded", "book_id", id, "object_key", key)
		httpx.OK(w, b)
	}
}
