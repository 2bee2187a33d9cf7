// Package push handles content delivered by the hub: signature check, feed classification
// and forwarding of new videos.
package push

import (
	"bytes"
	"context"
	"errors"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/tubehook/pkg/domain"
	"github.com/umputun/tubehook/pkg/feed"
	"github.com/umputun/tubehook/pkg/signature"
)

//go:generate moq -out mocks/forwarder.go -pkg mocks -skip-ensure -fmt goimports . Forwarder

// ErrInvalidSignature returned when signature header doesn't match the body
var ErrInvalidSignature = errors.New("invalid signature")

// Forwarder delivers video notification, best-effort
type Forwarder interface {
	Forward(ctx context.Context, n domain.VideoNotification)
}

// Pipeline verifies and dispatches pushed feed documents
type Pipeline struct {
	secret    string
	forwarder Forwarder
}

// New makes pipeline with the shared hub secret
func New(secret string, forwarder Forwarder) *Pipeline {
	return &Pipeline{secret: secret, forwarder: forwarder}
}

// Process checks signature of the raw body, classifies the feed and forwards new videos.
// Only signature mismatch is an error, any other outcome is reported by returned kind.
func (p *Pipeline) Process(ctx context.Context, signatureHeader string, body []byte) (feed.Kind, error) {
	if !signature.Verify(p.secret, signatureHeader, body) {
		lgr.Printf("[WARN] rejected push with invalid signature, %d bytes", len(body))
		return feed.KindIgnored, ErrInvalidSignature
	}

	ev := feed.Classify(bytes.NewReader(body))
	switch ev.Kind {
	case feed.KindVideo:
		lgr.Printf("[INFO] video %s from channel %s", ev.Video.Video.ID, ev.Video.Channel.ID)
		p.forwarder.Forward(ctx, ev.Video)
	case feed.KindDeleted:
		lgr.Printf("[INFO] deleted entry %s", ev.DeletedRef)
	case feed.KindEmpty:
		lgr.Printf("[DEBUG] empty feed pushed")
	default:
		lgr.Printf("[DEBUG] push ignored")
	}
	return ev.Kind, nil
}
