// Package hub implements the subscriber side of the PubSubHubbub (WebSub) subscription protocol.
package hub

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/tubehook/pkg/domain"
)

// defaults for the public YouTube hub
const (
	DefaultEndpoint    = "https://pubsubhubbub.appspot.com/subscribe"
	DefaultTopicPrefix = "https://www.youtube.com/xml/feeds/videos.xml?channel_id="
)

// hub request fields
const (
	fieldCallback = "hub.callback"
	fieldMode     = "hub.mode"
	fieldTopic    = "hub.topic"
	fieldSecret   = "hub.secret"
	fieldVerify   = "hub.verify"

	verifySync = "sync"
)

// Request is a single subscribe or unsubscribe request
type Request struct {
	ChannelID   string
	Mode        domain.SubscriptionMode
	Secret      string
	CallbackURL string
}

// Client sends subscription requests to the hub
type Client struct {
	endpoint    string
	topicPrefix string
	client      *http.Client
}

// Config for hub client, empty fields fall back to defaults
type Config struct {
	Endpoint    string
	TopicPrefix string
	Timeout     time.Duration
}

// NewClient makes hub client
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = DefaultTopicPrefix
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		endpoint:    cfg.Endpoint,
		topicPrefix: cfg.TopicPrefix,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

// Topic returns hub topic for the channel
func (c *Client) Topic(channelID string) string {
	return c.topicPrefix + channelID
}

// RequestSubscription sends a single request to the hub and reports whether the hub accepted it.
// Any failure, including network errors, is logged and reported as false. No retries.
func (c *Client) RequestSubscription(ctx context.Context, req Request) bool {
	form := url.Values{}
	form.Set(fieldCallback, req.CallbackURL)
	form.Set(fieldMode, string(req.Mode))
	form.Set(fieldTopic, c.Topic(req.ChannelID))
	form.Set(fieldSecret, req.Secret)
	form.Set(fieldVerify, verifySync)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		lgr.Printf("[WARN] can't make hub request for %s: %v", req.ChannelID, err)
		return false
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		lgr.Printf("[WARN] hub %s request for %s failed: %v", req.Mode, req.ChannelID, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		lgr.Printf("[WARN] hub rejected %s for %s, status %d: %s", req.Mode, req.ChannelID, resp.StatusCode,
			strings.TrimSpace(string(body)))
		return false
	}

	lgr.Printf("[DEBUG] hub accepted %s for %s, status %d", req.Mode, req.ChannelID, resp.StatusCode)
	return true
}
