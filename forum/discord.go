package forum

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"launch-bot/formatter"
	"launch-bot/models"

	"github.com/bwmarrin/discordgo"
)

// threadNameLimit is the maximum length of a Discord thread name.
const threadNameLimit = 100

// Discord implements Forum on a Discord forum channel. Posts are forum
// threads and a pin slot is the thread's PINNED flag. Discord allows a
// single pinned thread per forum, so a pin beyond that fails with
// ErrSlotsFull whatever the configured slot count.
type Discord struct {
	session   *discordgo.Session
	guildID   string
	channelID string
}

// NewSession creates a REST-only Discord session for a bot token.
func NewSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	return dg, nil
}

// NewDiscord returns a Forum posting to the forum channel channelID of guildID.
func NewDiscord(s *discordgo.Session, guildID, channelID string) *Discord {
	return &Discord{session: s, guildID: guildID, channelID: channelID}
}

// Submit starts a forum thread. Bodies over the message limit continue in
// follow-up messages in the same thread.
func (d *Discord) Submit(ctx context.Context, title, body string) (string, error) {
	chunks := formatter.SplitMessage(body, formatter.DiscordMessageLimit)
	th, err := d.session.ForumThreadStartComplex(d.channelID, &discordgo.ThreadStart{
		Name:                truncateRunes(title, threadNameLimit),
		AutoArchiveDuration: 10080, // one week; pinned threads never archive
	}, &discordgo.MessageSend{Content: chunks[0]}, discordgo.WithContext(ctx))
	if err != nil {
		return "", &OpError{Op: OpSubmit, Err: classify(err)}
	}

	for _, chunk := range chunks[1:] {
		if _, err := d.session.ChannelMessageSend(th.ID, chunk, discordgo.WithContext(ctx)); err != nil {
			return th.ID, &OpError{Op: OpSubmit, PostID: th.ID, Err: fmt.Errorf("continuation message: %w", classify(err))}
		}
	}
	return th.ID, nil
}

// ApplyTag sets the forum tag of a post.
func (d *Discord) ApplyTag(ctx context.Context, postID, tagID string) error {
	tags := []string{tagID}
	if _, err := d.session.ChannelEdit(postID, &discordgo.ChannelEdit{AppliedTags: &tags}, discordgo.WithContext(ctx)); err != nil {
		return &OpError{Op: OpTag, PostID: postID, Err: classify(err)}
	}
	return nil
}

// Hot lists the forum's active threads, most recently active first.
func (d *Discord) Hot(ctx context.Context, limit int) ([]models.ListingItem, error) {
	active, err := d.session.GuildThreadsActive(d.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, &OpError{Op: OpHot, Err: classify(err)}
	}
	return hotListing(active.Threads, d.channelID, limit), nil
}

// hotListing filters threads to the forum channel and orders them by last
// activity. Pinned threads keep their place in the ranking.
func hotListing(threads []*discordgo.Channel, channelID string, limit int) []models.ListingItem {
	var inForum []*discordgo.Channel
	for _, thread := range threads {
		if thread.ParentID == channelID {
			inForum = append(inForum, thread)
		}
	}
	sort.SliceStable(inForum, func(i, j int) bool {
		return snowflakeLess(lastActivity(inForum[j]), lastActivity(inForum[i]))
	})
	if limit > 0 && len(inForum) > limit {
		inForum = inForum[:limit]
	}

	items := make([]models.ListingItem, 0, len(inForum))
	for _, thread := range inForum {
		items = append(items, models.ListingItem{
			PostID: thread.ID,
			Title:  thread.Name,
			Pinned: thread.Flags&discordgo.ChannelFlagPinned != 0,
		})
	}
	return items
}

// Pin sets the PINNED flag on a post.
func (d *Discord) Pin(ctx context.Context, postID string) error {
	return d.setPinned(ctx, OpPin, postID, true)
}

// Unpin looks the post up and clears its PINNED flag.
func (d *Discord) Unpin(ctx context.Context, postID string) error {
	return d.setPinned(ctx, OpUnpin, postID, false)
}

func (d *Discord) setPinned(ctx context.Context, op, postID string, pinned bool) error {
	ch, err := d.session.Channel(postID, discordgo.WithContext(ctx))
	if err != nil {
		return &OpError{Op: op, PostID: postID, Err: classify(err)}
	}

	flags := ch.Flags &^ discordgo.ChannelFlagPinned
	if pinned {
		flags |= discordgo.ChannelFlagPinned
	}
	if flags == ch.Flags {
		return nil
	}

	if _, err := d.session.ChannelEdit(postID, &discordgo.ChannelEdit{Flags: &flags}, discordgo.WithContext(ctx)); err != nil {
		return &OpError{Op: op, PostID: postID, Err: classify(err)}
	}
	return nil
}

// Reply posts a message in the post's thread.
func (d *Discord) Reply(ctx context.Context, postID, text string) error {
	if _, err := d.session.ChannelMessageSend(postID, text, discordgo.WithContext(ctx)); err != nil {
		return &OpError{Op: OpReply, PostID: postID, Err: classify(err)}
	}
	return nil
}

// Comments lists the replies in the post's thread, excluding the starter
// message, oldest first.
func (d *Discord) Comments(ctx context.Context, postID string, limit int) ([]models.Comment, error) {
	msgs, err := d.session.ChannelMessages(postID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, &OpError{Op: OpComments, PostID: postID, Err: classify(err)}
	}

	comments := make([]models.Comment, 0, len(msgs))
	// The API returns newest first.
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		// The starter message shares the thread's ID.
		if m.ID == postID {
			continue
		}
		c := models.Comment{ID: m.ID, Body: m.Content}
		if m.Author != nil {
			c.AuthorID = m.Author.ID
		}
		comments = append(comments, c)
	}
	return comments, nil
}

// classify maps a Discord 404 onto ErrNotFound and a refused pin onto
// ErrSlotsFull.
func classify(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeMaximumNumberOfPinnedThreadsInForumChannelHasBeenReached {
		return fmt.Errorf("%w: %v", ErrSlotsFull, err)
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func lastActivity(ch *discordgo.Channel) string {
	if ch.LastMessageID != "" {
		return ch.LastMessageID
	}
	return ch.ID
}

// snowflakeLess compares two decimal snowflake IDs numerically.
func snowflakeLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
