// Package mockmail implements an in-memory mock mail provider for tests
// and local development. It speaks the same /v1/send contract as the
// real provider client and records everything it accepts.
package mockmail

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/jurylink/jurylink/internal/mailer"
)

// Server is a mock mail provider.
type Server struct {
	mu       sync.Mutex
	apiKey   string
	messages []mailer.Message
	failNext int
}

// New creates a mock provider. An empty apiKey accepts any AccessKey.
func New(apiKey string) *Server {
	return &Server{apiKey: apiKey}
}

// Handler returns the provider's HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/send", s.handleSend)
	r.Get("/admin/state", s.handleState)
	r.Get("/admin/messages", s.handleMessages)
	r.Post("/admin/fail", s.handleFail)
	return r
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if s.apiKey != "" && r.Header.Get("AccessKey") != s.apiKey {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var msg mailer.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil || msg.To == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
			"error":   "invalid_recipient",
			"message": "missing or malformed recipient",
		})
		return
	}

	s.mu.Lock()
	if s.failNext > 0 {
		s.failNext--
		s.mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
			"error":   "provider_down",
			"message": "injected failure",
		})
		return
	}
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	count := len(s.messages)
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "accepted": count}) //nolint:errcheck
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Messages()) //nolint:errcheck
}

// handleFail arms n injected failures for subsequent sends.
// POST /admin/fail {"count": n}
func (s *Server) handleFail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Count < 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.failNext = req.Count
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// Messages returns a copy of every accepted message.
func (s *Server) Messages() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Message(nil), s.messages...)
}
