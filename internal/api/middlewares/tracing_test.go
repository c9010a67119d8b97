package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	mw "github.com/5w1tchy/ai-books-api/internal/api/middlewares"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestTracing_RecordsServerSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	var inner trace.SpanContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = trace.SpanContextFromContext(r.Context())
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	mw.Tracing(next).ServeHTTP(rec, httptest.NewRequest("GET", "/books", nil))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.SpanKind() != trace.SpanKindServer {
		t.Errorf("kind = %v", s.SpanKind())
	}
	if s.Status().Code != codes.Error {
		t.Errorf("Expected error status for 500, got %v", s.Status().Code)
	}
	if !inner.IsValid() || inner.SpanID() != s.SpanContext().SpanID() {
		t.Error("handler context does not carry the server span")
	}
}

func TestTracing_NamesSpanAfterRoute(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	mux := http.NewServeMux()
	mux.HandleFunc("GET /books/{id}", func(w http.ResponseWriter, r *http.Request) {})
	h := mw.Tracing(mux)

	for _, target := range []string{"/books/1", "/books/2", "/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", target, nil))
	}

	spans := sr.Ended()
	if len(spans) != 3 {
		t.Fatalf("Expected 3 spans, got %d", len(spans))
	}
	for i, want := range []string{"GET /books/{id}", "GET /books/{id}", "GET"} {
		if got := spans[i].Name(); got != want {
			t.Errorf("span %d name = %q, want %q", i, got, want)
		}
	}
}
