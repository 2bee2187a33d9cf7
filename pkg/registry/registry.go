// Package registry keeps the list of channel subscriptions and drives hub requests for them.
// The list is stored as a single JSON blob, every change is a full read-modify-write of it.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/tubehook/pkg/domain"
	"github.com/umputun/tubehook/pkg/hub"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/hub.go -pkg mocks -skip-ensure -fmt goimports . Hub
//go:generate moq -out mocks/reporter.go -pkg mocks -skip-ensure -fmt goimports . Reporter

// StorageKey is the key of subscriptions blob
const StorageKey = "subscriptions"

// errors returned by registry operations
var (
	ErrSubscribeFailed   = errors.New("subscribe request failed")
	ErrUnsubscribeFailed = errors.New("unsubscribe request failed")
	ErrInvalidChannel    = errors.New("invalid channel id")
)

// Store is a key/value storage for the blob
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Hub sends subscription requests, true on success
type Hub interface {
	RequestSubscription(ctx context.Context, req hub.Request) bool
}

// Reporter sends failure reports, best-effort
type Reporter interface {
	Report(ctx context.Context, what string, err error) error
}

// Params for registry
type Params struct {
	Store       Store
	Hub         Hub
	Reporter    Reporter
	Secret      string           // hub.secret sent with every request
	CallbackURL string           // hub.callback sent with every request
	Now         func() time.Time // clock, time.Now if nil
}

// Registry manages subscriptions. It has no locking, concurrent modifications
// race on the stored blob and the last write wins.
type Registry struct {
	Params
}

// RenewResult is a summary of renew pass
type RenewResult struct {
	Total  int      `json:"total"`
	Failed []string `json:"failed"`
}

// New makes registry
func New(p Params) *Registry {
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Registry{Params: p}
}

// ListAll returns all subscriptions. Corrupted blob is removed from the store and
// treated as empty list, only storage errors are returned.
func (r *Registry) ListAll(ctx context.Context) ([]domain.Subscription, error) {
	raw, found, err := r.Store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	if !found {
		return []domain.Subscription{}, nil
	}

	subs, err := decode(raw)
	if err != nil {
		lgr.Printf("[WARN] corrupted subscriptions blob, reset: %v", err)
		if delErr := r.Store.Delete(ctx, StorageKey); delErr != nil {
			return nil, fmt.Errorf("reset subscriptions: %w", delErr)
		}
		return []domain.Subscription{}, nil
	}
	return subs, nil
}

// Add subscribes to the channel, does nothing if already subscribed.
// Registry is not changed if the hub rejects the request.
func (r *Registry) Add(ctx context.Context, channelID string) error {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return ErrInvalidChannel
	}

	subs, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	if indexOf(subs, channelID) >= 0 {
		lgr.Printf("[DEBUG] channel %s already subscribed", channelID)
		return nil
	}

	if !r.Hub.RequestSubscription(ctx, r.request(channelID, domain.ModeSubscribe)) {
		return fmt.Errorf("channel %s: %w", channelID, ErrSubscribeFailed)
	}

	subs = append(subs, domain.Subscription{ChannelID: channelID, LastSubscribedAt: r.Now()})
	if err := r.save(ctx, subs); err != nil {
		return err
	}
	lgr.Printf("[INFO] subscribed to channel %s", channelID)
	return nil
}

// Remove unsubscribes from the channel, does nothing if not subscribed.
// Registry is not changed if the hub rejects the request.
func (r *Registry) Remove(ctx context.Context, channelID string) error {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return ErrInvalidChannel
	}

	subs, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(subs, channelID)
	if idx < 0 {
		lgr.Printf("[DEBUG] channel %s not subscribed", channelID)
		return nil
	}

	if !r.Hub.RequestSubscription(ctx, r.request(channelID, domain.ModeUnsubscribe)) {
		return fmt.Errorf("channel %s: %w", channelID, ErrUnsubscribeFailed)
	}

	subs = append(subs[:idx], subs[idx+1:]...)
	if err := r.save(ctx, subs); err != nil {
		return err
	}
	lgr.Printf("[INFO] unsubscribed from channel %s", channelID)
	return nil
}

// RenewAll re-subscribes every channel sequentially. Failed channels are reported and kept,
// all subscriptions get the pass start time. The list is written once at the end.
func (r *Registry) RenewAll(ctx context.Context) (RenewResult, error) {
	now := r.Now()
	subs, err := r.ListAll(ctx)
	if err != nil {
		return RenewResult{}, err
	}

	res := RenewResult{Total: len(subs), Failed: []string{}}
	for i := range subs {
		if !r.Hub.RequestSubscription(ctx, r.request(subs[i].ChannelID, domain.ModeSubscribe)) {
			res.Failed = append(res.Failed, subs[i].ChannelID)
			repErr := r.Reporter.Report(ctx, "renew subscription "+subs[i].ChannelID, ErrSubscribeFailed)
			if repErr != nil {
				lgr.Printf("[WARN] can't report renew failure for %s: %v", subs[i].ChannelID, repErr)
			}
		}
		subs[i].LastSubscribedAt = now
	}

	if err := r.save(ctx, subs); err != nil {
		return res, err
	}
	lgr.Printf("[INFO] renewed %d subscriptions, %d failed", res.Total, len(res.Failed))
	return res, nil
}

func (r *Registry) request(channelID string, mode domain.SubscriptionMode) hub.Request {
	return hub.Request{ChannelID: channelID, Mode: mode, Secret: r.Secret, CallbackURL: r.CallbackURL}
}

func (r *Registry) save(ctx context.Context, subs []domain.Subscription) error {
	raw, err := encode(subs)
	if err != nil {
		return fmt.Errorf("encode subscriptions: %w", err)
	}
	if err := r.Store.Put(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("save subscriptions: %w", err)
	}
	return nil
}

func indexOf(subs []domain.Subscription, channelID string) int {
	for i, s := range subs {
		if s.ChannelID == channelID {
			return i
		}
	}
	return -1
}
