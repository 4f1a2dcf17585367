package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mw "github.com/shelfswap/marketplace-api/internal/api/middlewares"
)

func TestRequestID_MintsWhenAbsent(t *testing.T) {
	var inCtx string
	handler := mw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inCtx = mw.GetRequestID(r)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/books/", nil))

	rid := rec.Header().Get("X-Request-ID")
	if rid == "" {
		t.Fatal("want a minted X-Request-ID on the response")
	}
	if rid != inCtx {
		t.Fatalf("context id %q and response header %q must match", inCtx, rid)
	}
	// Minted ids are timestamp-prefixed for log grepping.
	if !strings.Contains(rid, "T") || !strings.Contains(rid, "-") {
		t.Fatalf("minted id %q missing timestamp prefix", rid)
	}
}

func TestRequestID_EchoesWellFormedClientID(t *testing.T) {
	handler := mw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/books/", nil)
	req.Header.Set("X-Request-ID", "client-trace_1.a")
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-trace_1.a" {
		t.Fatalf("want client id echoed, got %q", got)
	}
}

func TestRequestID_ReplacesMalformedClientID(t *testing.T) {
	bad := []string{
		"spaces are bad",
		"log\ninjection",
		strings.Repeat("x", 65),
		"emoji-💥",
	}
	for _, in := range bad {
		handler := mw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/books/", nil)
		req.Header.Set("X-Request-ID", in)
		handler.ServeHTTP(rec, req)

		got := rec.Header().Get("X-Request-ID")
		if got == in {
			t.Errorf("malformed id %q must be replaced", in)
		}
		if got == "" {
			t.Errorf("malformed id %q must still yield a minted one", in)
		}
	}
}
