package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
)

// Request is a request received by a Server.
type Request struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   map[string]any
}

// Server is a fake platform that records every request it receives.
// Routes are registered on Router by the test.
type Server struct {
	*httptest.Server
	Router chi.Router

	mu       sync.Mutex
	requests []Request
}

func NewServer(t testing.TB) *Server {
	s := &Server{
		Router: chi.NewRouter(),
	}
	s.Router.Use(s.record)
	s.Server = httptest.NewServer(s.Router)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(data))
		rec := Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		}
		if len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// Requests returns a copy of all recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Last returns the latest request, panicking if there is none.
func (s *Server) Last() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

// JSON responds with v as plain JSON.
func JSON(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httphelper.MarshalJSON(w, v)
	}
}

// Envelope responds with data wrapped in a successful envelope.
func Envelope(data any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httphelper.MarshalEnvelope(w, data)
	}
}

// EnvelopeError responds with an API error envelope.
func EnvelopeError(code int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httphelper.MarshalEnvelopeError(w, code, message)
	}
}

// Status responds with an empty body and status.
func Status(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}
}
