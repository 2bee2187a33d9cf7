package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/tubehook/pkg/push"
)

// hub verification query parameters
const (
	paramChallenge    = "hub.challenge"
	paramMode         = "hub.mode"
	paramTopic        = "hub.topic"
	paramLeaseSeconds = "hub.lease_seconds"
)

// verifyHandler answers hub intent verification by echoing the challenge
func (s *Server) verifyHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	challenge := q.Get(paramChallenge)
	if challenge == "" {
		s.renderError(w, r, http.StatusBadRequest, errors.New("no hub.challenge in verification request"),
			"missing hub.challenge")
		return
	}

	lgr.Printf("[INFO] hub verification, mode: %s, topic: %s, lease: %s",
		q.Get(paramMode), q.Get(paramTopic), q.Get(paramLeaseSeconds))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(challenge)); err != nil {
		lgr.Printf("[WARN] can't write challenge: %v", err)
	}
}

// pushHandler accepts content distribution from the hub
func (s *Server) pushHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, err, "can't read body")
		return
	}

	kind, err := s.pipeline.Process(r.Context(), r.Header.Get("X-Hub-Signature"), body)
	if errors.Is(err, push.ErrInvalidSignature) {
		s.renderError(w, r, http.StatusForbidden, err, "invalid signature")
		return
	}
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err, "can't process notification")
		return
	}

	lgr.Printf("[DEBUG] push processed as %s", kind)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
