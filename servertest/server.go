// Package servertest provides a scripted Onirim game server for tests.
//
// Every endpoint answers from its own queue of scripted responses, in order.
// An endpoint whose queue is empty answers 503 so a client that keeps
// polling after it should have stopped shows up as a failed fetch and as an
// extra recorded request.
package servertest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/luca-patrignani/onirim/network"
)

// Request is a request received by the Server.
type Request struct {
	Method    string
	Path      string
	SessionID string
	RequestID string
	Body      []byte
}

// Response is a scripted answer. A zero Code means 200.
type Response struct {
	Code int
	Body string
}

// JSON scripts a 200 response with v encoded as JSON.
func JSON(v any) Response {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return Response{Body: string(b)}
}

// Raw scripts a 200 response with a literal body.
func Raw(body string) Response {
	return Response{Body: body}
}

// Error scripts a non-2xx response with a text body.
func Error(code int, body string) Response {
	return Response{Code: code, Body: body}
}

type Server struct {
	*httptest.Server
	mu       sync.Mutex
	scripts  map[string][]Response
	requests []Request
}

// New starts a Server closed at the end of the test.
func New(t testing.TB) *Server {
	s := &Server{scripts: make(map[string][]Response)}
	r := chi.NewRouter()
	r.Get(network.PathNewGame, s.serve)
	r.Get(network.PathBoard, s.serve)
	r.Get(network.PathStatus, s.serve)
	r.Get(network.PathPrompt, s.serve)
	r.Post(network.PathChoice, s.serve)
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Script queues responses for path.
func (s *Server) Script(path string, responses ...Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[path] = append(s.scripts[path], responses...)
}

// Requests returns the requests received on path, in arrival order.
func (s *Server) Requests(path string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the number of requests received on path.
func (s *Server) Count(path string) int {
	return len(s.Requests(path))
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:    r.Method,
		Path:      r.URL.Path,
		SessionID: r.URL.Query().Get(network.SessionParam),
		RequestID: r.Header.Get(network.RequestIDHeader),
		Body:      body,
	})
	queue := s.scripts[r.URL.Path]
	var resp Response
	if len(queue) == 0 {
		resp = Error(http.StatusServiceUnavailable, "no scripted response")
	} else {
		resp = queue[0]
		s.scripts[r.URL.Path] = queue[1:]
	}
	s.mu.Unlock()

	code := resp.Code
	if code == 0 {
		code = http.StatusOK
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(code)
	_, _ = io.WriteString(w, resp.Body)
}
