package serveapi

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/eagerparse/internal/corpus"
)

type loginRequest struct {
	APIKey string `json:"api_key"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type healthResponse struct {
	RunID         string `json:"run_id"`
	Fingerprint   string `json:"fingerprint"`
	NumLabels     int    `json:"num_labels"`
	NumAttributes int    `json:"num_attributes"`
	NumNamespaces int    `json:"num_namespaces"`
}

// handleHealth reports the loaded model's fingerprint, run ID, and
// vocabulary sizes.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("X-Model-Fingerprint", hex.EncodeToString(s.Fingerprint))
		writeJSON(w, http.StatusOK, healthResponse{
			RunID:         s.RunID.String(),
			Fingerprint:   hex.EncodeToString(s.Fingerprint),
			NumLabels:     s.Dict.NumLabels(),
			NumAttributes: s.Dict.NumAttributes(),
			NumNamespaces: s.Dict.NumNamespaces(),
		})
	}
}

// handleLogin exchanges the static API key for a bearer token. The key is
// never stored in the clear; only its bcrypt hash is compared.
func (s *Server) handleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body loginRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error())
			return
		}
		if body.APIKey == "" {
			writeError(w, http.StatusBadRequest, "api_key: property is empty or missing from request")
			return
		}

		if err := bcrypt.CompareHashAndPassword(s.APIKeyHash, []byte(body.APIKey)); err != nil {
			s.sleepUnauth()
			writeError(w, http.StatusUnauthorized, "bad API key")
			return
		}

		tok, err := generateJWT(s.JWTSecret)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not generate token: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Token: tok})
	}
}

// handleParse reads a corpus-format request body, parses every sentence in
// it with the loaded model, and writes the same tab-separated prediction
// lines the batch evaluator emits. It calls the exact same Learner.Parse
// the batch CLI path uses, so the two surfaces are guaranteed to agree.
func (s *Server) handleParse() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		sentences, err := corpus.ReadCorpus(req.Body, "request body", s.Dict)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if len(sentences) == 0 {
			writeError(w, http.StatusBadRequest, "request body contained no sentences")
			return
		}

		w.Header().Set("X-Model-Fingerprint", hex.EncodeToString(s.Fingerprint))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)

		for _, sent := range sentences {
			heads, labels := s.Learner.Parse(sent)
			if err := corpus.WritePredictions(w, sent, heads, labels, s.Dict); err != nil {
				return
			}
		}
	}
}
