// Package apitest provides a fake TripGo backend for service tests: a
// chi-routed httptest server speaking the `{code, message, result}` envelope.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Server is the fake backend. Register handlers per endpoint, then point a
// restclient.Client at URL().
type Server struct {
	t      *testing.T
	router chi.Router
	server *httptest.Server
}

// NewServer starts a fake backend that is torn down with the test.
func NewServer(t *testing.T) *Server {
	t.Helper()
	router := chi.NewRouter()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &Server{t: t, router: router, server: server}
}

// URL returns the backend's base URL.
func (s *Server) URL() string {
	return s.server.URL
}

// Handle registers a raw handler for method and pattern (chi syntax, e.g.
// "/public/hotels/{id}").
func (s *Server) Handle(method, pattern string, handler http.HandlerFunc) {
	s.router.MethodFunc(method, pattern, handler)
}

// HandleResult registers a handler that always responds with result wrapped
// in the success envelope.
func (s *Server) HandleResult(method, pattern string, result any) {
	s.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteResult(s.t, w, result)
	})
}

// HandleStatus registers a handler that always responds with the given
// status and an error envelope.
func (s *Server) HandleStatus(method, pattern string, status int, message string) {
	s.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteError(s.t, w, status, message)
	})
}

// WriteResult writes result wrapped in the success envelope.
func WriteResult(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"code":    1000,
		"message": "OK",
		"result":  result,
	}); err != nil {
		t.Fatalf("encode envelope: %v", err)
	}
}

// WriteError writes an error envelope with the given HTTP status.
func WriteError(t *testing.T, w http.ResponseWriter, status int, message string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"code":    status * 10,
		"message": message,
	}); err != nil {
		t.Fatalf("encode error envelope: %v", err)
	}
}

// DecodeBody decodes a request body into target.
func DecodeBody(t *testing.T, r *http.Request, target any) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
}
