// Package notify delivers formatted messages about new videos and operational failures
// to a chat sink, discord webhook or log.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/tubehook/pkg/domain"
)

//go:generate moq -out mocks/sink.go -pkg mocks -skip-ensure -fmt goimports . Sink

// Sink accepts a rendered message for delivery
type Sink interface {
	Send(ctx context.Context, msg string) error
}

// Forwarder renders video notifications and pushes them to the sink
type Forwarder struct {
	sink   Sink
	policy *bluemonday.Policy
}

// NewForwarder makes a forwarder for the given sink
func NewForwarder(sink Sink) *Forwarder {
	return &Forwarder{sink: sink, policy: bluemonday.StrictPolicy()}
}

// Forward sends notification to the sink. Delivery is best-effort, errors are logged and dropped.
func (f *Forwarder) Forward(ctx context.Context, n domain.VideoNotification) {
	if err := f.sink.Send(ctx, f.FormatMessage(n)); err != nil {
		lgr.Printf("[WARN] failed to forward video %s from %s: %v", n.Video.ID, n.Channel.ID, err)
		return
	}
	lgr.Printf("[INFO] forwarded video %s %q from %s", n.Video.ID, n.Video.Title, n.Channel.ID)
}

// FormatMessage renders notification as a markdown chat message
func (f *Forwarder) FormatMessage(n domain.VideoNotification) string {
	link := n.Video.Link
	if link == "" {
		link = "Video link unavailable"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**[%s](%s)** published a new video\n", f.plain(n.Channel.Name), n.Channel.Link)
	fmt.Fprintf(&sb, "*%s*\n", f.plain(n.Video.Title))
	sb.WriteString(link + "\n")
	fmt.Fprintf(&sb, "Published: <t:%d:R>\n", n.PublishedAt/1000)
	fmt.Fprintf(&sb, "Updated: <t:%d:R>", n.UpdatedAt/1000)
	return sb.String()
}

// plain strips any markup and turns entities back to text
func (f *Forwarder) plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(f.policy.Sanitize(s)))
}

// Reporter sends operational failures to the sink
type Reporter struct {
	sink Sink
}

// NewReporter makes a reporter for the given sink
func NewReporter(sink Sink) *Reporter {
	return &Reporter{sink: sink}
}

// Report sends "[tubehook] what: error" message. Callers treat it as best-effort.
func (r *Reporter) Report(ctx context.Context, what string, err error) error {
	msg := fmt.Sprintf("[tubehook] %s: %v", what, err)
	if sendErr := r.sink.Send(ctx, msg); sendErr != nil {
		return fmt.Errorf("send report: %w", sendErr)
	}
	return nil
}
