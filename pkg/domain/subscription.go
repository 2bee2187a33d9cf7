package domain

import "time"

// Subscription represents a hub subscription for a single channel feed
type Subscription struct {
	ChannelID        string
	LastSubscribedAt time.Time
}

// SubscriptionMode is the hub.mode value of a subscription request
type SubscriptionMode string

// enum of hub modes
const (
	ModeSubscribe   SubscriptionMode = "subscribe"
	ModeUnsubscribe SubscriptionMode = "unsubscribe"
)
