package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordSink_Send(t *testing.T) {
	t.Run("posts json content", func(t *testing.T) {
		var got discordMessage
		var contentType string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			contentType = r.Header.Get("Content-Type")
			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.NoError(t, json.Unmarshal(body, &got))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer ts.Close()

		sink := NewDiscordSink(DiscordConfig{WebhookURL: ts.URL, Username: "tubehook"})
		require.NoError(t, sink.Send(context.Background(), "hello **world**"))
		assert.Equal(t, "application/json", contentType)
		assert.Equal(t, "hello **world**", got.Content)
		assert.Equal(t, "tubehook", got.Username)
	})

	t.Run("non-2xx is error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer ts.Close()

		err := NewDiscordSink(DiscordConfig{WebhookURL: ts.URL}).Send(context.Background(), "msg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("long message truncated", func(t *testing.T) {
		var got discordMessage
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		}))
		defer ts.Close()

		require.NoError(t, NewDiscordSink(DiscordConfig{WebhookURL: ts.URL}).Send(context.Background(), strings.Repeat("ж", 3000)))
		assert.Equal(t, maxContentLen, len([]rune(got.Content)))
	})

	t.Run("unreachable", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := ts.URL
		ts.Close()
		err := NewDiscordSink(DiscordConfig{WebhookURL: url, Timeout: time.Second}).Send(context.Background(), "msg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "post webhook")
	})

	t.Run("bad url", func(t *testing.T) {
		err := NewDiscordSink(DiscordConfig{WebhookURL: "://bad"}).Send(context.Background(), "msg")
		require.Error(t, err)
	})
}

func TestNewDiscordSink_DefaultTimeout(t *testing.T) {
	s := NewDiscordSink(DiscordConfig{WebhookURL: "http://localhost"})
	assert.Equal(t, 10*time.Second, s.client.Timeout)
}

func TestLogSink_Send(t *testing.T) {
	assert.NoError(t, LogSink{}.Send(context.Background(), "anything"))
}
