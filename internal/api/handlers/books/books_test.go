package books_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/5w1tchy/ai-books-api/internal/api/handlers/books"
	"github.com/5w1tchy/ai-books-api/internal/models"
	storebooks "github.com/5w1tchy/ai-books-api/internal/store/books"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type problem struct {
	Title       string `json:"title"`
	Status      int    `json:"status"`
	Detail      string `json:"detail"`
	FieldErrors []struct {
		Field string `json:"field"`
		Code  string `json:"code"`
	} `json:"field_errors"`
}

func newServer(t *testing.T, store books.Store, covers books.CoverStorage) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	books.Register(mux, books.Deps{
		Store:  store,
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Covers: covers,
	})
	return mux
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBook(t *testing.T, rec *httptest.ResponseRecorder) models.Book {
	t.Helper()
	var b models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b), rec.Body.String())
	return b
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) problem {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p), rec.Body.String())
	return p
}

func fieldCodes(p problem) map[string]string {
	out := map[string]string{}
	for _, f := range p.FieldErrors {
		out[f.Field] = f.Code
	}
	return out
}

func TestBookLifecycle(t *testing.T) {
	store := newMemStore()
	h := newServer(t, store, nil)

	rec := do(t, h, "POST", "/books", `{"title":"Dune","author":"Frank Herbert","price":1999}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/books/1", rec.Header().Get("Location"))

	created := decodeBook(t, rec)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Dune", created.Title)
	assert.Equal(t, int64(1999), created.Price)
	assert.Nil(t, created.Publisher)
	assert.Contains(t, rec.Body.String(), `"publisher":null`)

	rec = do(t, h, "GET", "/books/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decodeBook(t, rec))

	rec = do(t, h, "PUT", "/books/1", `{"price":500}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBook(t, rec)
	assert.Equal(t, int64(500), updated.Price)
	assert.Equal(t, "Dune", updated.Title)
	assert.Equal(t, "Frank Herbert", updated.Author)

	rec = do(t, h, "DELETE", "/books/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, "GET", "/books/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, "DELETE", "/books/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate_RejectsNonPositivePrice(t *testing.T) {
	for _, price := range []string{"0", "-5"} {
		t.Run(price, func(t *testing.T) {
			store := newMemStore()
			h := newServer(t, store, nil)

			rec := do(t, h, "POST", "/books", `{"title":"T","author":"A","price":`+price+`}`)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, "gt", fieldCodes(decodeProblem(t, rec))["price"])
			assert.Zero(t, store.inserts, "store must not be touched")
		})
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
		code  string
	}{
		{"missing title", `{"author":"A","price":1}`, "title", "required"},
		{"missing price", `{"title":"T","author":"A"}`, "price", "required"},
		{"null author", `{"title":"T","author":null,"price":1}`, "author", "not_null"},
		{"blank title", `{"title":"   ","author":"A","price":1}`, "title", "min_length"},
		{"price as string", `{"title":"T","author":"A","price":"12"}`, "price", "type"},
		{"fractional price", `{"title":"T","author":"A","price":1.5}`, "price", "type"},
		{"bad publish date", `{"title":"T","author":"A","price":1,"publish_date":"1/2/2024"}`, "publish_date", "pattern"},
		{"array body", `[1,2]`, "body", "invalid"},
		{"malformed body", `{"title":`, "body", "invalid"},
		{"null body", `null`, "body", "required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			rec := do(t, newServer(t, store, nil), "POST", "/books", tc.body)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			assert.Equal(t, tc.code, fieldCodes(decodeProblem(t, rec))[tc.field])
			assert.Zero(t, store.count())
		})
	}
}

func TestCreate_NormalizesAndIgnoresUnknownKeys(t *testing.T) {
	h := newServer(t, newMemStore(), nil)

	// "e" + combining acute becomes the precomposed form
	rec := do(t, h, "POST", "/books", `{"id":99,"created_at":"x","title":"  Cafe\u0301  ","author":"A","price":1,"publisher":null}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	b := decodeBook(t, rec)
	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, "  Caf\u00e9  ", b.Title)
	assert.Nil(t, b.Publisher)
}

func TestCreate_IntegrityAnomaly(t *testing.T) {
	store := newMemStore()
	store.loseOnInsert = true

	rec := do(t, newServer(t, store, nil), "POST", "/books", `{"title":"T","author":"A","price":1}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeProblem(t, rec).Detail, "failed to retrieve newly created book")
}

func TestPut_EmptyBody(t *testing.T) {
	store := newMemStore()
	h := newServer(t, store, nil)
	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/books", `{"title":"T","author":"A","price":1}`).Code)

	rec := do(t, h, "PUT", "/books/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.updates)

	// existence is checked before emptiness
	rec = do(t, h, "PUT", "/books/404", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPut_UnknownID(t *testing.T) {
	store := newMemStore()
	rec := do(t, newServer(t, store, nil), "PUT", "/books/7", `{"price":10}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, store.updates)
}

func TestPut_NullClearsOptionalField(t *testing.T) {
	store := newMemStore()
	h := newServer(t, store, nil)
	require.Equal(t, http.StatusCreated,
		do(t, h, "POST", "/books", `{"title":"T","author":"A","price":1,"publisher":"P","isbn":"123"}`).Code)

	rec := do(t, h, "PUT", "/books/1", `{"publisher":null}`)
	require.Equal(t, http.StatusOK, rec.Code)

	b := decodeBook(t, rec)
	assert.Nil(t, b.Publisher)
	require.NotNil(t, b.ISBN)
	assert.Equal(t, "123", *b.ISBN)
	assert.Equal(t, storebooks.Fields{storebooks.ColPublisher: nil}, store.lastUpdateSet)
}

func TestPut_NullISBNClearsColumn(t *testing.T) {
	store := newMemStore()
	h := newServer(t, store, nil)
	require.Equal(t, http.StatusCreated,
		do(t, h, "POST", "/books", `{"title":"T","author":"A","price":100,"isbn":"978-0","publisher":null}`).Code)

	rec := do(t, h, "PUT", "/books/1", `{"isbn":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, decodeBook(t, rec).ISBN)
	assert.Equal(t, storebooks.Fields{storebooks.ColISBN: nil}, store.lastUpdateSet)
}

func TestPut_NullRequiredField(t *testing.T) {
	store := newMemStore()
	h := newServer(t, store, nil)
	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/books", `{"title":"T","author":"A","price":1}`).Code)

	rec := do(t, h, "PUT", "/books/1", `{"price":null}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "not_null", fieldCodes(decodeProblem(t, rec))["price"])
}

func TestPut_UpdateReportsNoRow(t *testing.T) {
	store := newMemStore()
	h := newServer(t, store, nil)
	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/books", `{"title":"T","author":"A","price":1}`).Code)
	store.updateNoop = true

	rec := do(t, h, "PUT", "/books/1", `{"title":"New"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeProblem(t, rec).Detail, "failed to update book 1")
}

func TestInvalidPathID(t *testing.T) {
	h := newServer(t, newMemStore(), nil)
	for _, method := range []string{"GET", "PUT", "DELETE"} {
		rec := do(t, h, method, "/books/abc", `{"price":1}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, method)
		assert.Equal(t, "type", fieldCodes(decodeProblem(t, rec))["id"])
	}
}

func TestList_Paging(t *testing.T) {
	store := newMemStore()
	h := newServer(t, store, nil)
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusCreated, do(t, h, "POST", "/books", `{"title":"T","author":"A","price":1}`).Code)
	}

	rec := do(t, h, "GET", "/books?skip=1&limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page []models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page, 2)
	assert.Equal(t, int64(2), page[0].ID)
	assert.Equal(t, int64(3), page[1].ID)

	rec = do(t, h, "GET", "/books?skip=50", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = do(t, h, "GET", "/books", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page, 5)
}

func TestList_InvalidPaging(t *testing.T) {
	h := newServer(t, newMemStore(), nil)
	for _, q := range []string{"limit=0", "limit=101", "skip=-1", "skip=x"} {
		rec := do(t, h, "GET", "/books?"+q, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, q)
	}
}

func TestTrailingSlashRedirects(t *testing.T) {
	rec := do(t, newServer(t, newMemStore(), nil), "GET", "/books/?limit=3", "")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/books?limit=3", rec.Header().Get("Location"))
}

func TestStoreUnavailable(t *testing.T) {
	store := newMemStore()
	store.err = errors.Join(storebooks.ErrUnavailable, errors.New("dial tcp: connection refused"))
	h := newServer(t, store, nil)

	for _, tc := range []struct{ method, target, body string }{
		{"GET", "/books", ""},
		{"GET", "/books/1", ""},
		{"POST", "/books", `{"title":"T","author":"A","price":1}`},
		{"PUT", "/books/1", `{"price":2}`},
		{"DELETE", "/books/1", ""},
	} {
		rec := do(t, h, tc.method, tc.target, tc.body)
		require.Equal(t, http.StatusInternalServerError, rec.Code, tc.method+" "+tc.target)
		p := decodeProblem(t, rec)
		assert.Equal(t, "Store unavailable", p.Title)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	}
}
