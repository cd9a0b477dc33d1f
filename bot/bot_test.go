package bot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"launch-bot/models"
)

func testConfig(dir string) *models.Config {
	return &models.Config{
		Bot: models.BotConfig{Token: "test-token", UserAgent: "launch-bot-test"},
		Forum: models.ForumConfig{
			GuildID:        "1100000000000000000",
			ChannelID:      "1200000000000000000",
			PinSlots:       2,
			HotLimit:       10,
			CommentLimit:   100,
			FallbackNotice: "both slots in use",
		},
		Launches: models.LaunchesConfig{
			APIURL:         "http://127.0.0.1:1/launch/upcoming/",
			LookaheadHours: 24,
			Timezone:       "America/New_York",
			Timeout:        time.Second,
		},
		Storage: models.StorageConfig{
			PinLog:    filepath.Join(dir, "stickied_log.txt"),
			ErrorLog:  filepath.Join(dir, "error_log.txt"),
			HistoryDB: filepath.Join(dir, "data", "announcements.db"),
		},
	}
}

func TestNewBotWiresCollaborators(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBot(testConfig(dir))
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	defer b.Close()

	if b.History == nil || b.Forum == nil || b.PinLog == nil || b.Formatter == nil {
		t.Fatalf("bot not fully wired: %+v", b)
	}
	if b.Session.UserAgent != "launch-bot-test" {
		t.Errorf("user agent = %q", b.Session.UserAgent)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "announcements.db")); err != nil {
		t.Errorf("history database not created: %v", err)
	}
}

func TestNewBotRejectsBadZone(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Launches.Timezone = "Nowhere/Special"
	if _, err := NewBot(cfg); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRunUnpinEmptyLogMakesNoRequests(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBot(testConfig(dir))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	b.RunUnpin(context.Background())

	if _, err := os.Stat(filepath.Join(dir, "stickied_log.txt")); !os.IsNotExist(err) {
		t.Fatalf("pin-log created: %v", err)
	}
}

func TestRunPostWithUnreachableScheduleIsNoop(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBot(testConfig(dir))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	b.RunPost(context.Background())

	if _, err := os.Stat(filepath.Join(dir, "stickied_log.txt")); !os.IsNotExist(err) {
		t.Fatalf("pin-log created: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "error_log.txt"))
	if err != nil || len(data) == 0 {
		t.Fatalf("fetch failure not logged: %q, %v", data, err)
	}
}
