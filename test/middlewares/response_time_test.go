package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/shelfswap/marketplace-api/internal/api/middlewares"
)

func TestResponseTime_StampedBeforeHeadersFlush(t *testing.T) {
	handler := mw.ResponseTimeMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/books/", nil))

	got := rec.Header().Get("X-Response-Time")
	if got == "" {
		t.Fatal("want X-Response-Time header")
	}
	d, err := time.ParseDuration(got)
	if err != nil {
		t.Fatalf("header %q is not a duration: %v", got, err)
	}
	if d < 5*time.Millisecond {
		t.Fatalf("measured %v, want at least the handler's 5ms", d)
	}
}

func TestResponseTime_StampedOnBareWrite(t *testing.T) {
	handler := mw.ResponseTimeMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success"}`))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/books/", nil))

	if rec.Header().Get("X-Response-Time") == "" {
		t.Fatal("want X-Response-Time when the handler skips WriteHeader")
	}
}

func TestResponseTime_StampedOnBodylessResponse(t *testing.T) {
	handler := mw.ResponseTimeMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// neither Write nor WriteHeader; implicit 200 with no body
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("HEAD", "/books/", nil))

	if rec.Header().Get("X-Response-Time") == "" {
		t.Fatal("want X-Response-Time even without a body")
	}
}
