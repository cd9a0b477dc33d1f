// Package unpinner releases the pin slots taken by earlier announcements.
package unpinner

import (
	"context"
	"errors"
	"fmt"

	"launch-bot/forum"
	"launch-bot/models"
	"launch-bot/utils"
)

// PinLog is the log of posts awaiting unpinning.
type PinLog interface {
	IDs() ([]string, error)
	Truncate() error
	Lock() (func() error, error)
}

// History is told about posts that were unpinned. It is optional.
type History interface {
	UpdatePostStatus(postID, status string) error
}

// Unpinner reconciles the pin-log against the forum.
type Unpinner struct {
	forum   forum.Forum
	pinLog  PinLog
	history History
	logger  *utils.Logger
}

// New creates an Unpinner. history may be nil.
func New(f forum.Forum, pinLog PinLog, history History, logger *utils.Logger) *Unpinner {
	return &Unpinner{forum: f, pinLog: pinLog, history: history, logger: logger}
}

// Reconcile unpins every logged post, then clears the log. Failed posts are
// logged and not retried. If ctx ends first the log is kept for the next
// pass.
func (u *Unpinner) Reconcile(ctx context.Context) {
	unlock, err := u.pinLog.Lock()
	if err != nil {
		u.logger.Warn("Unpinner", "Lock", fmt.Sprintf("Reconciling without lock: %v", err))
	} else {
		defer func() {
			if err := unlock(); err != nil {
				u.logger.Warn("Unpinner", "Lock", fmt.Sprintf("Failed to release lock: %v", err))
			}
		}()
	}

	ids, err := u.pinLog.IDs()
	if err != nil {
		u.logger.Error("Unpinner", "ReadLog", err.Error())
		return
	}
	if len(ids) == 0 {
		u.logger.Info("Unpinner", "Reconcile", "Pin-log is empty, nothing to unpin.")
		return
	}

	unpinned := 0
	for i, id := range ids {
		if ctx.Err() != nil {
			u.logger.Error("Unpinner", "Reconcile", fmt.Sprintf("Pass cancelled after %d of %d posts, pin-log kept: %v", i, len(ids), ctx.Err()))
			return
		}
		if err := u.forum.Unpin(ctx, id); err != nil {
			reason := err.Error()
			if errors.Is(err, forum.ErrNotFound) {
				reason = "post no longer exists"
			}
			u.logger.Error("Unpinner", "Unpin", fmt.Sprintf("Failed to unpin post %s: %s", id, reason))
			continue
		}
		unpinned++
		u.logger.Info("Unpinner", "Unpin", fmt.Sprintf("Unpinned post: %s", id))

		if u.history != nil {
			if err := u.history.UpdatePostStatus(id, models.StatusUnpinned); err != nil {
				u.logger.Warn("Unpinner", "History", fmt.Sprintf("Failed to update post %s: %v", id, err))
			}
		}
	}

	if ctx.Err() != nil {
		// The last Unpin may have been cut short.
		u.logger.Error("Unpinner", "Reconcile", fmt.Sprintf("Pass cancelled, pin-log kept: %v", ctx.Err()))
		return
	}

	if err := u.pinLog.Truncate(); err != nil {
		u.logger.Error("Unpinner", "ClearLog", err.Error())
		return
	}
	u.logger.Info("Unpinner", "Reconcile", fmt.Sprintf("Unpinned %d of %d logged posts, pin-log cleared.", unpinned, len(ids)))
}
