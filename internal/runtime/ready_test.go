package runtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReadyMux(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	mux := NewBaseMuxWithReady(
		ReadyCheck{Name: "db", Check: ok},
		ReadyCheck{Name: "redis", Check: down},
	)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status = %d, want 503", w.Code)
	}
	if body := w.Body.String(); !strings.HasPrefix(body, "redis:") {
		t.Fatalf("readyz body = %q, want failing check named", body)
	}

	w = httptest.NewRecorder()
	NewBaseMuxWithReady(ReadyCheck{Name: "db", Check: ok}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("readyz with healthy deps = %d %q", w.Code, w.Body.String())
	}
}
