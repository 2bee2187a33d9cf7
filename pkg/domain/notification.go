package domain

// Video describes a published or updated video
type Video struct {
	ID    string
	Title string
	Link  string
}

// Channel describes the channel the video belongs to
type Channel struct {
	ID   string
	Name string
	Link string
}

// VideoNotification is the canonical record of a new or updated video pushed by the hub.
// PublishedAt and UpdatedAt are unix timestamps in milliseconds.
type VideoNotification struct {
	Video       Video
	Channel     Channel
	PublishedAt int64
	UpdatedAt   int64
}
