package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/umputun/tubehook/pkg/domain"
)

// blobEntry is stored form of subscription. Pointer fields tell missing values from zero ones.
type blobEntry struct {
	ChannelID        *string  `json:"channelId"`
	LastSubscribedAt *float64 `json:"lastSubscribedAt"` // epoch ms
}

// decode parses and validates stored blob
func decode(raw string) ([]domain.Subscription, error) {
	var entries []*blobEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if entries == nil {
		return nil, errors.New("not an array")
	}

	res := make([]domain.Subscription, 0, len(entries))
	for i, e := range entries {
		switch {
		case e == nil:
			return nil, fmt.Errorf("entry %d is null", i)
		case e.ChannelID == nil || *e.ChannelID == "":
			return nil, fmt.Errorf("entry %d: missing channelId", i)
		case e.LastSubscribedAt == nil:
			return nil, fmt.Errorf("entry %d: missing lastSubscribedAt", i)
		}
		res = append(res, domain.Subscription{
			ChannelID:        *e.ChannelID,
			LastSubscribedAt: time.UnixMilli(int64(*e.LastSubscribedAt)).UTC(),
		})
	}
	return res, nil
}

// encode makes blob from subscriptions, always a JSON array
func encode(subs []domain.Subscription) (string, error) {
	entries := make([]blobEntry, 0, len(subs))
	for _, s := range subs {
		id, ts := s.ChannelID, float64(s.LastSubscribedAt.UnixMilli())
		entries = append(entries, blobEntry{ChannelID: &id, LastSubscribedAt: &ts})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
