// Package publisher posts the launch announcement and applies the pin-slot
// policy to it.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"launch-bot/formatter"
	"launch-bot/forum"
	"launch-bot/models"
	"launch-bot/utils"
)

// PinLog receives the ID of every published post.
type PinLog interface {
	Append(id string) error
	Lock() (func() error, error)
}

// History records published posts. It is optional.
type History interface {
	InsertPost(post models.AnnouncementPost, status string) error
}

// Options configures the pin-slot policy.
type Options struct {
	TagID          string
	PinSlots       int
	HotLimit       int
	CommentLimit   int
	FallbackNotice string
}

// Publisher submits announcements to a forum.
type Publisher struct {
	forum     forum.Forum
	formatter *formatter.Formatter
	pinLog    PinLog
	history   History
	logger    *utils.Logger
	opts      Options
	now       func() time.Time
}

// New creates a Publisher. history may be nil.
func New(f forum.Forum, fm *formatter.Formatter, pinLog PinLog, history History, logger *utils.Logger, opts Options) *Publisher {
	return &Publisher{
		forum:     f,
		formatter: fm,
		pinLog:    pinLog,
		history:   history,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
	}
}

// Publish posts the launches as one announcement. It never fails: every
// error is logged and the pass moves on or ends.
func (p *Publisher) Publish(ctx context.Context, launches []models.LaunchRecord) {
	if len(launches) == 0 {
		p.logger.Info("Publisher", "Publish", "No launches to post.")
		return
	}

	post := models.AnnouncementPost{
		Title:       p.formatter.BuildTitle(p.now()),
		Body:        p.formatter.BuildBody(launches),
		TagID:       p.opts.TagID,
		LaunchCount: len(launches),
		CreatedAt:   p.now(),
	}

	id, err := p.forum.Submit(ctx, post.Title, post.Body)
	if id == "" {
		p.logger.Error("Publisher", "Submit", fmt.Sprintf("Failed to post announcement: %v", err))
		return
	}
	if err != nil {
		// The thread exists but part of the body is missing; keep managing it.
		p.logger.Error("Publisher", "Submit", fmt.Sprintf("Announcement %s posted incompletely: %v", id, err))
	}
	post.PostID = id
	p.logger.Info("Publisher", "Submit", fmt.Sprintf("Posted %q as %s", post.Title, id))

	if p.opts.TagID != "" {
		if err := p.forum.ApplyTag(ctx, id, p.opts.TagID); err != nil {
			p.logger.Error("Publisher", "ApplyTag", fmt.Sprintf("Failed to tag post %s: %v", id, err))
		}
	}

	status := p.claimPinSlot(ctx, id)
	post.Pinned = status == models.StatusPinned

	p.recordPinLog(id)

	if p.history != nil {
		if err := p.history.InsertPost(post, status); err != nil {
			p.logger.Warn("Publisher", "History", fmt.Sprintf("Failed to record post %s: %v", id, err))
		}
	}
}

// claimPinSlot pins the post when fewer than PinSlots posts of the hot
// listing are pinned, and otherwise leaves a fallback notice on it. A pin the
// forum refuses with ErrSlotsFull also gets the notice.
func (p *Publisher) claimPinSlot(ctx context.Context, id string) string {
	pinned := 0
	hot, err := p.forum.Hot(ctx, p.opts.HotLimit)
	if err != nil {
		p.logger.Warn("Publisher", "Hot", fmt.Sprintf("Could not read hot listing, assuming free slots: %v", err))
	}
	for _, item := range hot {
		if item.Pinned && item.PostID != id {
			pinned++
		}
	}

	if pinned < p.opts.PinSlots {
		err := p.forum.Pin(ctx, id)
		switch {
		case err == nil:
			p.logger.Info("Publisher", "Pin", fmt.Sprintf("Pinned post %s (%d/%d slots were in use)", id, pinned, p.opts.PinSlots))
			return models.StatusPinned
		case errors.Is(err, forum.ErrSlotsFull):
			// The forum's own capacity can be lower than PinSlots.
			p.logger.Info("Publisher", "Pin", fmt.Sprintf("Forum refused to pin %s, its pin slots are full", id))
		default:
			p.logger.Error("Publisher", "Pin", fmt.Sprintf("Failed to pin post %s: %v", id, err))
			return models.StatusPinFail
		}
	} else {
		p.logger.Info("Publisher", "Pin", fmt.Sprintf("All %d pin slots in use, not pinning %s", p.opts.PinSlots, id))
	}

	p.replyFallbackNotice(ctx, id)
	return models.StatusFallback
}

func (p *Publisher) replyFallbackNotice(ctx context.Context, id string) {
	comments, err := p.forum.Comments(ctx, id, p.opts.CommentLimit)
	if err != nil {
		p.logger.Error("Publisher", "Comments", fmt.Sprintf("Failed to list comments on %s: %v", id, err))
		return
	}
	if HasNotice(comments, p.opts.FallbackNotice) {
		return
	}
	if err := p.forum.Reply(ctx, id, p.opts.FallbackNotice); err != nil {
		p.logger.Error("Publisher", "Reply", fmt.Sprintf("Failed to add fallback notice to %s: %v", id, err))
	}
}

func (p *Publisher) recordPinLog(id string) {
	unlock, err := p.pinLog.Lock()
	if err != nil {
		p.logger.Warn("Publisher", "PinLog", fmt.Sprintf("Appending without lock: %v", err))
	} else {
		defer func() {
			if err := unlock(); err != nil {
				p.logger.Warn("Publisher", "PinLog", fmt.Sprintf("Failed to release lock: %v", err))
			}
		}()
	}
	if err := p.pinLog.Append(id); err != nil {
		p.logger.Error("Publisher", "PinLog", fmt.Sprintf("Failed to log post %s: %v", id, err))
	}
}

// HasNotice reports whether any comment contains notice, ignoring case.
func HasNotice(comments []models.Comment, notice string) bool {
	notice = strings.ToLower(notice)
	for _, c := range comments {
		if strings.Contains(strings.ToLower(c.Body), notice) {
			return true
		}
	}
	return false
}
