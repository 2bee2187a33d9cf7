package feed

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/umputun/tubehook/pkg/domain"
)

// WatchURLPrefix is the canonical watch URL, video id appended
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// Kind of a pushed feed document
type Kind int

// enum of all kinds, KindIgnored is the zero value
const (
	KindIgnored Kind = iota // structurally invalid, nothing to do
	KindEmpty               // feed without entries and deletion marker
	KindDeleted             // deleted entry marker
	KindVideo               // new or updated video
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindDeleted:
		return "deleted"
	case KindVideo:
		return "video"
	default:
		return "ignored"
	}
}

// Event is a classified push notification. Video is set for KindVideo only,
// DeletedRef for KindDeleted only.
type Event struct {
	Kind       Kind
	Video      domain.VideoNotification
	DeletedRef string
}

// Classify parses feed document and maps it to exactly one Event kind.
// Deletion marker wins over entries, entries over empty feed. Parsing and validation
// failures are logged and result in KindIgnored, never in error.
func Classify(r io.Reader) Event {
	doc, err := (&atom.Parser{}).Parse(r)
	if err != nil {
		lgr.Printf("[WARN] can't parse pushed feed, ignored: %v", err)
		return Event{Kind: KindIgnored}
	}

	if deleted, ok := findExtension(doc.Extensions, "deleted-entry"); ok {
		return Event{Kind: KindDeleted, DeletedRef: deleted.Attrs["ref"]}
	}

	if len(doc.Entries) == 0 {
		return Event{Kind: KindEmpty}
	}

	video, err := videoNotification(doc.Entries[0])
	if err != nil {
		lgr.Printf("[WARN] invalid feed entry, ignored: %v", err)
		return Event{Kind: KindIgnored}
	}
	return Event{Kind: KindVideo, Video: video}
}

// videoNotification validates required entry fields and builds canonical record.
// The link is always made from video id, entry <link> elements are not used.
func videoNotification(entry *atom.Entry) (domain.VideoNotification, error) {
	var missing []string
	field := func(name, val string) string {
		val = strings.TrimSpace(val)
		if val == "" {
			missing = append(missing, name)
		}
		return val
	}

	videoID := field("videoId", extensionValue(entry.Extensions, "videoId"))
	channelID := field("channelId", extensionValue(entry.Extensions, "channelId"))
	title := field("title", entry.Title)

	var authorName, authorURI string
	if len(entry.Authors) > 0 && entry.Authors[0] != nil {
		authorName, authorURI = entry.Authors[0].Name, entry.Authors[0].URI
	}
	authorName = field("author.name", authorName)
	authorURI = field("author.uri", authorURI)

	if entry.PublishedParsed == nil {
		missing = append(missing, "published")
	}
	if entry.UpdatedParsed == nil {
		missing = append(missing, "updated")
	}

	if len(missing) > 0 {
		return domain.VideoNotification{}, fmt.Errorf("missing or invalid %s", strings.Join(missing, ", "))
	}
	if strings.ContainsAny(videoID, "/?&# ") {
		return domain.VideoNotification{}, errors.New("malformed videoId")
	}

	return domain.VideoNotification{
		Video:       domain.Video{ID: videoID, Title: title, Link: WatchURLPrefix + videoID},
		Channel:     domain.Channel{ID: channelID, Name: authorName, Link: authorURI},
		PublishedAt: entry.PublishedParsed.UnixMilli(),
		UpdatedAt:   entry.UpdatedParsed.UnixMilli(),
	}, nil
}

// findExtension looks up extension element by name under any namespace prefix,
// feeds are free to bind their own prefixes to the yt and tombstone namespaces
func findExtension(exts ext.Extensions, name string) (ext.Extension, bool) {
	for _, byName := range exts {
		if vals, ok := byName[name]; ok && len(vals) > 0 {
			return vals[0], true
		}
	}
	return ext.Extension{}, false
}

func extensionValue(exts ext.Extensions, name string) string {
	e, ok := findExtension(exts, name)
	if !ok {
		return ""
	}
	return e.Value
}
