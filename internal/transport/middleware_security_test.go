package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"event-discovery/internal/domain"
)

func TestWithSecurityHeaders(t *testing.T) {
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, domain.ErrNotFound)
	})

	always := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"X-XSS-Protection":        "1; mode=block",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
	}

	for _, prod := range []bool{true, false} {
		w := httptest.NewRecorder()
		WithSecurityHeaders(notFound, prod).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/missing", nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("Expected error status to pass through, got %d", w.Code)
		}
		for k, v := range always {
			if got := w.Header().Get(k); got != v {
				t.Errorf("production=%v: expected %s=%q, got %q", prod, k, v, got)
			}
		}
		if hsts := w.Header().Get("Strict-Transport-Security"); (hsts != "") != prod {
			t.Errorf("production=%v: unexpected HSTS %q", prod, hsts)
		}
	}
}

func TestWithCORS(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	h := WithCORS(next, "https://events.example.com")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/events/", nil))

	if w.Code != http.StatusNoContent || called {
		t.Errorf("Expected preflight to be answered directly, got %d (called=%v)", w.Code, called)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://events.example.com" {
		t.Errorf("Unexpected origin %q", got)
	}

	w = httptest.NewRecorder()
	WithCORS(next, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/", nil))
	if !called || w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected wildcard origin and pass-through")
	}
}
