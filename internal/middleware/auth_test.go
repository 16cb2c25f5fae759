package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthMiddleware_WithValidToken(t *testing.T) {
	m := NewAuthMiddleware("test-token")

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	r := httptest.NewRequest(http.MethodPost, "/api/run", nil)
	r.Header.Set("Authorization", "Bearer test-token")

	m.Middleware(next).ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}

func TestAuthMiddleware_WithWrongToken(t *testing.T) {
	m := NewAuthMiddleware("test-token")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/run", nil)
	r.Header.Set("Authorization", "Bearer other-token")

	m.Middleware(next).ServeHTTP(w, r)

	if res := w.Result(); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_WithoutHeader(t *testing.T) {
	m := NewAuthMiddleware("test-token")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/run", nil)

	m.Middleware(next).ServeHTTP(w, r)

	if res := w.Result(); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_DisabledWithEmptyToken(t *testing.T) {
	m := NewAuthMiddleware("")

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	r := httptest.NewRequest(http.MethodPost, "/api/run", nil)

	m.Middleware(next).ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}
