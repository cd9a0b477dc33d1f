// Package forumtest provides an in-memory forum.Forum for tests.
package forumtest

import (
	"context"
	"fmt"
	"sync"

	"launch-bot/forum"
	"launch-bot/models"
)

// Post is a post held by Fake.
type Post struct {
	ID       string
	Title    string
	Body     string
	Tags     []string
	Pinned   bool
	Comments []models.Comment
}

// Fake records every call and serves a configurable hot listing. Set the
// *Err fields, or FailUnpin for single posts, to inject failures.
type Fake struct {
	mu     sync.Mutex
	nextID int

	Posts map[string]*Post
	// HotItems is returned by Hot ahead of posts created through Submit.
	HotItems []models.ListingItem
	Calls    []string
	// OnSubmit, if set, may modify each post right after it is created.
	OnSubmit func(*Post)

	SubmitErr   error
	TagErr      error
	HotErr      error
	PinErr      error
	ReplyErr    error
	CommentsErr error
	FailUnpin   map[string]error
}

// NewFake returns an empty Fake. Submitted posts get IDs "post-1", "post-2"...
func NewFake() *Fake {
	return &Fake{Posts: make(map[string]*Post), FailUnpin: make(map[string]error)}
}

func (f *Fake) record(call string) {
	f.Calls = append(f.Calls, call)
}

// Called reports how many times op was called.
func (f *Fake) Called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *Fake) Submit(ctx context.Context, title, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(forum.OpSubmit)
	if f.SubmitErr != nil {
		return "", &forum.OpError{Op: forum.OpSubmit, Err: f.SubmitErr}
	}
	f.nextID++
	id := fmt.Sprintf("post-%d", f.nextID)
	p := &Post{ID: id, Title: title, Body: body}
	if f.OnSubmit != nil {
		f.OnSubmit(p)
	}
	f.Posts[id] = p
	return id, nil
}

func (f *Fake) ApplyTag(ctx context.Context, postID, tagID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(forum.OpTag)
	if f.TagErr != nil {
		return &forum.OpError{Op: forum.OpTag, PostID: postID, Err: f.TagErr}
	}
	p, ok := f.Posts[postID]
	if !ok {
		return &forum.OpError{Op: forum.OpTag, PostID: postID, Err: forum.ErrNotFound}
	}
	p.Tags = append(p.Tags, tagID)
	return nil
}

func (f *Fake) Hot(ctx context.Context, limit int) ([]models.ListingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(forum.OpHot)
	if f.HotErr != nil {
		return nil, &forum.OpError{Op: forum.OpHot, Err: f.HotErr}
	}
	items := append([]models.ListingItem(nil), f.HotItems...)
	for i := f.nextID; i >= 1; i-- {
		if p, ok := f.Posts[fmt.Sprintf("post-%d", i)]; ok {
			items = append(items, models.ListingItem{PostID: p.ID, Title: p.Title, Pinned: p.Pinned})
		}
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *Fake) Pin(ctx context.Context, postID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(forum.OpPin)
	if f.PinErr != nil {
		return &forum.OpError{Op: forum.OpPin, PostID: postID, Err: f.PinErr}
	}
	p, ok := f.Posts[postID]
	if !ok {
		return &forum.OpError{Op: forum.OpPin, PostID: postID, Err: forum.ErrNotFound}
	}
	p.Pinned = true
	return nil
}

func (f *Fake) Unpin(ctx context.Context, postID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(forum.OpUnpin)
	if err := f.FailUnpin[postID]; err != nil {
		return &forum.OpError{Op: forum.OpUnpin, PostID: postID, Err: err}
	}
	p, ok := f.Posts[postID]
	if !ok {
		return &forum.OpError{Op: forum.OpUnpin, PostID: postID, Err: forum.ErrNotFound}
	}
	p.Pinned = false
	return nil
}

func (f *Fake) Reply(ctx context.Context, postID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(forum.OpReply)
	if f.ReplyErr != nil {
		return &forum.OpError{Op: forum.OpReply, PostID: postID, Err: f.ReplyErr}
	}
	p, ok := f.Posts[postID]
	if !ok {
		return &forum.OpError{Op: forum.OpReply, PostID: postID, Err: forum.ErrNotFound}
	}
	p.Comments = append(p.Comments, models.Comment{ID: fmt.Sprintf("%s-c%d", postID, len(p.Comments)+1), Body: text})
	return nil
}

func (f *Fake) Comments(ctx context.Context, postID string, limit int) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(forum.OpComments)
	if f.CommentsErr != nil {
		return nil, &forum.OpError{Op: forum.OpComments, PostID: postID, Err: f.CommentsErr}
	}
	p, ok := f.Posts[postID]
	if !ok {
		return nil, &forum.OpError{Op: forum.OpComments, PostID: postID, Err: forum.ErrNotFound}
	}
	comments := append([]models.Comment(nil), p.Comments...)
	if len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

var _ forum.Forum = (*Fake)(nil)
