// Package middleware provides the HTTP middleware stack for the customers service.
package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestResponseWriter_WriteHeaderOnlyOnce(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	// Act - second status must be ignored
	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusBadRequest)

	// Assert
	if rw.statusCode != http.StatusCreated {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusCreated)
	}
}

func TestResponseWriter_WriteDefaultsToOK(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	if _, err := rw.Write([]byte("body")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusOK)
	}
	if !rw.written {
		t.Error("written should be true after Write")
	}
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	// Arrange
	var ctxValue any
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxValue = r.Context().Value(RequestIDKey)
	}))
	req := httptest.NewRequest("GET", "/customers", nil)
	w := httptest.NewRecorder()

	// Act
	handler.ServeHTTP(w, req)

	// Assert
	got := w.Header().Get(RequestIDHeader)
	if got == "" {
		t.Fatal("expected a generated request ID header")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("request ID %q is not a valid UUID: %v", got, err)
	}
	if ctxValue != got {
		t.Errorf("context value = %v, want %q", ctxValue, got)
	}
}

func TestRequestIDPreservesExisting(t *testing.T) {
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/customers", nil)
	req.Header.Set(RequestIDHeader, "test-id-123")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "test-id-123" {
		t.Errorf("request ID = %q, want test-id-123", got)
	}
}

func TestRecoveryAnswersJSON500(t *testing.T) {
	// Arrange
	handler := Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	req := httptest.NewRequest("GET", "/customers", nil)
	w := httptest.NewRecorder()

	// Act
	handler.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode panic response: %v", err)
	}
	if body.Error != "Internal Server Error" {
		t.Errorf("error = %q, want Internal Server Error", body.Error)
	}
}

func TestLoggingPassesResponseThrough(t *testing.T) {
	handler := Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	req := httptest.NewRequest("GET", "/customers", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
	}
	if w.Body.String() != "short and stout" {
		t.Errorf("body = %q, want original body", w.Body.String())
	}
}

func TestRoutePattern(t *testing.T) {
	// The metric label must be the route template, not the concrete URL.
	var got string
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req)
			got = routePattern(req)
		})
	})
	r.Get("/customers/{id}", func(w http.ResponseWriter, req *http.Request) {})

	req := httptest.NewRequest("GET", "/customers/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got != "/customers/{id}" {
		t.Errorf("routePattern = %q, want /customers/{id}", got)
	}
}

func TestRoutePatternFallback(t *testing.T) {
	req := httptest.NewRequest("GET", "/customers/42", nil)
	if got := routePattern(req); got != "/customers/42" {
		t.Errorf("routePattern = %q, want raw path", got)
	}
}
