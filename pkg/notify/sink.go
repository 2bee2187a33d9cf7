package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
)

// maxContentLen is discord limit for message content
const maxContentLen = 2000

// DiscordConfig defines discord webhook sink parameters
type DiscordConfig struct {
	WebhookURL string
	Username   string
	Timeout    time.Duration
}

// DiscordSink posts messages to discord webhook
type DiscordSink struct {
	cfg    DiscordConfig
	client *http.Client
}

// NewDiscordSink makes discord webhook sink, default timeout is 10s
func NewDiscordSink(cfg DiscordConfig) *DiscordSink {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &DiscordSink{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type discordMessage struct {
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

// Send posts message as webhook content, any 2xx status is success
func (d *DiscordSink) Send(ctx context.Context, msg string) error {
	if r := []rune(msg); len(r) > maxContentLen {
		msg = string(r[:maxContentLen-1]) + "…"
	}
	body, err := json.Marshal(discordMessage{Content: msg, Username: d.cfg.Username})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("make webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook responded with %d: %s", resp.StatusCode, bytes.TrimSpace(excerpt))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// LogSink writes messages to the log, used when no webhook configured
type LogSink struct{}

// Send logs the message
func (LogSink) Send(_ context.Context, msg string) error {
	lgr.Printf("[INFO] notification:\n%s", msg)
	return nil
}
