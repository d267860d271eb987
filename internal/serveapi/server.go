// Package serveapi implements the HTTP inference service: a chi router
// exposing /parse, /health, and /login over an already-trained model.
package serveapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dekarrin/eagerparse/internal/dict"
	"github.com/dekarrin/eagerparse/internal/learner"
)

// Server holds the loaded model and auth material an inference service
// request handler needs. It never calls learner.Learner.Fit: handlers do
// read-only inference over a frozen dictionary and finalized weights, which
// is what makes serving them from concurrent goroutines safe without
// locking.
type Server struct {
	Learner     *learner.Learner
	Dict        *dict.Dictionary
	RunID       uuid.UUID
	Fingerprint []byte

	APIKeyHash []byte
	JWTSecret  []byte

	// UnauthDelay is the extra time slept before an unauthorized/forbidden
	// response is written, an anti-flood measure for naive clients.
	UnauthDelay time.Duration
}

// Router builds the chi.Mux exposing this Server's endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth())
	r.Post("/login", s.handleLogin())

	r.Group(func(r chi.Router) {
		r.Use(s.requireBearerAuth())
		r.Post("/parse", s.handleParse())
	})

	return r
}
