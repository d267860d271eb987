package serveapi

import (
	"net/http"
	"time"

	"github.com/dekarrin/eagerparse/internal/parseerr"
)

// requireBearerAuth returns middleware rejecting any request without a
// valid bearer token signed with s.JWTSecret: delay-then-401 on any
// failure. The server never distinguishes "missing token" from "bad token"
// in its response to avoid leaking which.
func (s *Server) requireBearerAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			tok, err := bearerToken(req.Header.Get("Authorization"))
			if err == nil {
				err = validateJWT(tok, s.JWTSecret)
			}
			if err != nil {
				s.sleepUnauth()
				writeError(w, http.StatusUnauthorized, parseerr.NewAuth("missing or invalid bearer token").Error())
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func (s *Server) sleepUnauth() {
	if s.UnauthDelay > 0 {
		time.Sleep(s.UnauthDelay)
	}
}
