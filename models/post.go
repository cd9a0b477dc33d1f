package models

import "time"

// Pin outcomes recorded in the post history.
const (
	StatusPinned   = "pinned"
	StatusFallback = "unpinned-fallback" // slots were full, notice replied
	StatusPinFail  = "pin-failed"
	StatusUnpinned = "unpinned"
)

// AnnouncementPost is the forum post created by one publish pass.
type AnnouncementPost struct {
	PostID      string // forum thread ID, assigned on submit
	Title       string
	Body        string
	TagID       string
	Pinned      bool
	LaunchCount int
	CreatedAt   time.Time
}

// ListingItem is one entry of the forum's hot listing.
type ListingItem struct {
	PostID string
	Title  string
	Pinned bool
}

// Comment is a reply on a forum post.
type Comment struct {
	ID       string
	AuthorID string
	Body     string
}
