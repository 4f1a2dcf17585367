package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	mw "github.com/shelfswap/marketplace-api/internal/api/middlewares"
)

func TestRecovery_PanicBecomes500(t *testing.T) {
	handler := mw.Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/books/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", rec.Code)
	}
	if rec.Body.String() != "Internal Server Error\n" {
		t.Fatalf("panic details must not leak, got body %q", rec.Body.String())
	}
}

func TestRecovery_KeepsServingAfterPanic(t *testing.T) {
	calls := 0
	handler := mw.Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			panic("first request blows up")
		}
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest("GET", "/books/", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest("GET", "/books/", nil))

	if first.Code != http.StatusInternalServerError {
		t.Fatalf("want 500 on panicking request, got %d", first.Code)
	}
	if second.Code != http.StatusOK {
		t.Fatalf("want 200 once the handler behaves, got %d", second.Code)
	}
}

func TestRecovery_RequestIDSurvivesPanic(t *testing.T) {
	// Chained behind RequestID the way the server wires it, so the 500 still
	// carries the id a client would quote in a bug report.
	handler := mw.RequestID(mw.Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/books/", nil)
	req.Header.Set("X-Request-ID", "bug-report-42")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "bug-report-42" {
		t.Fatalf("want the client's request id on the error response, got %q", got)
	}
}

func TestRecovery_PassThrough(t *testing.T) {
	handler := mw.Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/books/", nil))

	if rec.Code != http.StatusCreated || rec.Body.String() != "ok" {
		t.Fatalf("recovery must not touch normal responses: %d %q", rec.Code, rec.Body.String())
	}
}
