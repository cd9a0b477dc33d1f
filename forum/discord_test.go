package forum

import (
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestHotListing(t *testing.T) {
	threads := []*discordgo.Channel{
		{ID: "1000", ParentID: "forum", Name: "quiet", LastMessageID: "1001"},
		{ID: "2000", ParentID: "other", Name: "elsewhere", LastMessageID: "9999"},
		{ID: "3000", ParentID: "forum", Name: "pinned", LastMessageID: "5000", Flags: discordgo.ChannelFlagPinned},
		{ID: "900", ParentID: "forum", Name: "busy", LastMessageID: "10000"},
		{ID: "4000", ParentID: "forum", Name: "new, no replies"},
	}

	items := hotListing(threads, "forum", 3)
	if len(items) != 3 {
		t.Fatalf("got %d items", len(items))
	}
	wantOrder := []string{"900", "3000", "4000"}
	for i, id := range wantOrder {
		if items[i].PostID != id {
			t.Errorf("item %d = %s, want %s", i, items[i].PostID, id)
		}
	}
	if !items[1].Pinned || items[0].Pinned || items[2].Pinned {
		t.Errorf("pinned flags = %v %v %v", items[0].Pinned, items[1].Pinned, items[2].Pinned)
	}
}

func TestSnowflakeLess(t *testing.T) {
	if !snowflakeLess("999", "1000") {
		t.Error("999 should sort before 1000")
	}
	if snowflakeLess("1000", "999") || snowflakeLess("1000", "1000") {
		t.Error("unexpected ordering")
	}
}

func TestOpError(t *testing.T) {
	err := error(&OpError{Op: OpUnpin, PostID: "42", Err: ErrNotFound})
	if got, want := err.Error(), "forum unpin 42: post not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("OpError does not unwrap")
	}
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Op != OpUnpin {
		t.Error("OpError not recovered with errors.As")
	}
}

func TestClassifyNotFound(t *testing.T) {
	notFound := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}
	if !errors.Is(classify(notFound), ErrNotFound) {
		t.Error("404 not classified as ErrNotFound")
	}
	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}
	if errors.Is(classify(forbidden), ErrNotFound) {
		t.Error("403 classified as ErrNotFound")
	}
}

func TestClassifySlotsFull(t *testing.T) {
	full := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusBadRequest},
		Message:  &discordgo.APIErrorMessage{Code: 30047, Message: "Maximum number of pinned threads in a forum channel has been reached"},
	}
	err := classify(full)
	if !errors.Is(err, ErrSlotsFull) || errors.Is(err, ErrNotFound) {
		t.Errorf("classify(30047) = %v", err)
	}
	other := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusBadRequest},
		Message:  &discordgo.APIErrorMessage{Code: 50035, Message: "Invalid Form Body"},
	}
	if errors.Is(classify(other), ErrSlotsFull) {
		t.Error("50035 classified as ErrSlotsFull")
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("🚀 Upcoming", 3); got != "🚀 U" {
		t.Errorf("truncateRunes = %q", got)
	}
}
