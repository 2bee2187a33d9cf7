package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/umputun/tubehook/pkg/registry"
)

type channelRequest struct {
	ChannelID string `json:"channelId"`
}

type subscriptionResponse struct {
	ChannelID        string    `json:"channelId"`
	LastSubscribedAt time.Time `json:"lastSubscribedAt"`
}

// authMiddleware allows requests with "Authorization: Bearer <api token>" only
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		expected := s.config.GetAPIToken()
		if !ok || expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			s.renderError(w, r, http.StatusUnauthorized, errors.New("bad or missing bearer token"), "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// listHandler returns all subscriptions
func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	subs, err := s.registry.ListAll(r.Context())
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err, "can't list subscriptions")
		return
	}

	res := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		res = append(res, subscriptionResponse{ChannelID: sub.ChannelID, LastSubscribedAt: sub.LastSubscribedAt})
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"subscriptions": res, "count": len(res)})
}

// addHandler subscribes to a channel
func (s *Server) addHandler(w http.ResponseWriter, r *http.Request) {
	channelID, ok := s.decodeChannel(w, r)
	if !ok {
		return
	}
	if err := s.registry.Add(r.Context(), channelID); err != nil {
		s.renderRegistryError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]string{"status": "subscribed", "channelId": channelID})
}

// removeHandler unsubscribes from a channel
func (s *Server) removeHandler(w http.ResponseWriter, r *http.Request) {
	channelID, ok := s.decodeChannel(w, r)
	if !ok {
		return
	}
	if err := s.registry.Remove(r.Context(), channelID); err != nil {
		s.renderRegistryError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]string{"status": "unsubscribed", "channelId": channelID})
}

// renewHandler runs renew pass, the pass is not cancelled if client goes away
func (s *Server) renewHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.registry.RenewAll(context.WithoutCancel(r.Context()))
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err, "renew failed")
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"status": "renewed", "total": res.Total, "failed": res.Failed})
}

func (s *Server) decodeChannel(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req channelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err, "invalid request body")
		return "", false
	}
	channelID := strings.TrimSpace(req.ChannelID)
	if channelID == "" {
		s.renderError(w, r, http.StatusBadRequest, registry.ErrInvalidChannel, "channelId is required")
		return "", false
	}
	return channelID, true
}

// renderRegistryError maps registry errors to status codes
func (s *Server) renderRegistryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, registry.ErrInvalidChannel):
		s.renderError(w, r, http.StatusBadRequest, err, "invalid channel id")
	case errors.Is(err, registry.ErrSubscribeFailed):
		s.renderError(w, r, http.StatusBadGateway, err, "hub rejected subscribe request")
	case errors.Is(err, registry.ErrUnsubscribeFailed):
		s.renderError(w, r, http.StatusBadGateway, err, "hub rejected unsubscribe request")
	default:
		s.renderError(w, r, http.StatusInternalServerError, err, "internal error")
	}
}
