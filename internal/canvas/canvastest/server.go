// Package canvastest provides an in-process fake of the Canvas REST API for tests.
package canvastest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// Token is the access token the fake accepts.
const Token = "test-token"

// Server serves canned Canvas responses under /api/v1.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
}

// NewServer starts a fake Canvas API that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		routes: map[string]http.HandlerFunc{},
		hits:   map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Auth returns credentials that point at the fake.
func (s *Server) Auth() types.AuthContext {
	return types.AuthContext{BaseURL: s.URL, AccessToken: Token}
}

// Handle registers h for path, given without the /api/v1 prefix.
func (s *Server) Handle(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[strings.Trim(path, "/")] = h
}

// Object serves v as a single JSON resource.
func (s *Server) Object(path string, v any) {
	s.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, v)
	})
}

// List serves items as a collection paginated by the page and per_page query
// parameters, advertising further pages through the Link header.
func (s *Server) List(path string, items []map[string]any) {
	s.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		page := intParam(r, "page", 1)
		perPage := intParam(r, "per_page", 10)
		start := (page - 1) * perPage
		end := start + perPage
		if start > len(items) {
			start = len(items)
		}
		if end > len(items) {
			end = len(items)
		}
		if end < len(items) {
			q := r.URL.Query()
			q.Set("page", strconv.Itoa(page+1))
			next := fmt.Sprintf("http://%s%s?%s", r.Host, r.URL.Path, q.Encode())
			w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
		}
		writeJSON(w, http.StatusOK, items[start:end])
	})
}

// Fail answers path with status and a Canvas style error body.
func (s *Server) Fail(path string, status int, message string) {
	s.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, map[string]any{
			"errors": []map[string]string{{"message": message}},
		})
	})
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[strings.Trim(path, "/")]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+Token {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"errors": []map[string]string{{"message": "Invalid access token."}},
		})
		return
	}
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1"), "/")

	s.mu.Lock()
	s.hits[path]++
	h, ok := s.routes[path]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"errors": []map[string]string{{"message": "The specified resource does not exist."}},
		})
		return
	}
	h(w, r)
}

func intParam(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
