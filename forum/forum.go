// Package forum is the boundary to the discussion forum announcements are
// posted to.
package forum

import (
	"context"
	"errors"
	"fmt"

	"launch-bot/models"
)

// Operation names carried by OpError.
const (
	OpSubmit   = "submit"
	OpTag      = "tag"
	OpHot      = "hot"
	OpPin      = "pin"
	OpUnpin    = "unpin"
	OpReply    = "reply"
	OpComments = "comments"
)

var (
	// ErrNotFound is wrapped when the post no longer exists.
	ErrNotFound = errors.New("post not found")
	// ErrSlotsFull is wrapped when the forum refuses a pin because its pin
	// capacity is reached.
	ErrSlotsFull = errors.New("pin slots full")
)

// Forum is everything the publisher and unpinner need from the forum.
type Forum interface {
	// Submit creates a new post and returns its ID.
	Submit(ctx context.Context, title, body string) (string, error)
	ApplyTag(ctx context.Context, postID, tagID string) error
	// Hot returns up to limit posts of the hot listing with their pin state.
	Hot(ctx context.Context, limit int) ([]models.ListingItem, error)
	Pin(ctx context.Context, postID string) error
	Unpin(ctx context.Context, postID string) error
	Reply(ctx context.Context, postID, text string) error
	// Comments lists up to limit replies on a post, oldest first.
	Comments(ctx context.Context, postID string, limit int) ([]models.Comment, error)
}

// OpError records which forum operation failed and for which post.
type OpError struct {
	Op     string
	PostID string
	Err    error
}

func (e *OpError) Error() string {
	if e.PostID == "" {
		return fmt.Sprintf("forum %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("forum %s %s: %v", e.Op, e.PostID, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
