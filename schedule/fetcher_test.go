package schedule

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"launch-bot/models"
	"launch-bot/utils"
)

var now = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func newLogger(t *testing.T) (*utils.Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "error_log.txt")
	logger, err := utils.NewLogger(path, nil, "")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger, path
}

func newFetcher(t *testing.T, url string) (*Fetcher, string) {
	logger, path := newLogger(t)
	cfg := models.LaunchesConfig{APIURL: url, LookaheadHours: 24, Timeout: 5 * time.Second}
	return NewFetcher(nil, cfg, "launch-bot-test", logger), path
}

const upcomingJSON = `{
  "count": 6,
  "results": [
    {"name": "Already flying", "net": "2025-06-01T11:59:00Z"},
    {"name": "Exactly now", "net": "2025-06-01T12:00:00Z"},
    {"name": "In an hour", "net": "2025-06-01T13:00:00Z",
     "launch_service_provider": {"name": "SpaceX"},
     "mission": {"name": "Starlink"},
     "vidURLs": [{"priority": 10, "title": "Stream", "url": "https://youtu.be/a"}],
     "url": "https://ll.thespacedevs.com/2.2.0/launch/a/"},
    {"name": "No time"},
    {"name": "Edge of window", "net": "2025-06-02T14:00:00+02:00", "vidURLs": ["https://youtu.be/b"]},
    {"name": "Next week", "net": "2025-06-08T12:00:00Z"}
  ]
}`

func TestFetchUpcomingFiltersWindow(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, upcomingJSON)
	}))
	defer srv.Close()

	f, _ := newFetcher(t, srv.URL)
	launches := f.FetchUpcoming(context.Background(), now)

	var names []string
	for _, l := range launches {
		names = append(names, l.Name)
	}
	if got, want := strings.Join(names, ","), "In an hour,Edge of window"; got != want {
		t.Fatalf("launches = %s, want %s", got, want)
	}
	if gotUA != "launch-bot-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}

	first := launches[0]
	if first.ProviderName() != "SpaceX" || first.MissionName() != "Starlink" || first.Webcast() != "https://youtu.be/a" {
		t.Errorf("decoded record = %+v", first)
	}
	if launches[1].Webcast() != "https://youtu.be/b" {
		t.Errorf("string vidURL not decoded: %+v", launches[1].VidURLs)
	}
}

func TestFetchUpcomingToleratesOddWebcastEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": [
			{"name": "Numbers", "net": "2025-06-01T13:00:00Z", "vidURLs": [42, ["x"], {"url": "https://youtu.be/c"}]},
			{"name": "Only junk", "net": "2025-06-01T14:00:00Z", "vidURLs": [true, null]}
		]}`)
	}))
	defer srv.Close()

	f, _ := newFetcher(t, srv.URL)
	launches := f.FetchUpcoming(context.Background(), now)
	if len(launches) != 2 {
		t.Fatalf("got %d launches, want 2", len(launches))
	}
	if got := launches[0].Webcast(); got != "https://youtu.be/c" {
		t.Errorf("webcast = %q", got)
	}
	if got := launches[1].Webcast(); got != "" {
		t.Errorf("webcast from junk entries = %q", got)
	}
}

func TestFetchUpcomingFailsOpen(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"results": [`)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			f, logPath := newFetcher(t, srv.URL)
			if launches := f.FetchUpcoming(context.Background(), now); len(launches) != 0 {
				t.Fatalf("expected no launches, got %d", len(launches))
			}
			data, err := os.ReadFile(logPath)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), "Failed to get launch data") {
				t.Fatalf("error not logged: %q", data)
			}
		})
	}
}

func TestFetchUpcomingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f, _ := newFetcher(t, url)
	if launches := f.FetchUpcoming(context.Background(), now); len(launches) != 0 {
		t.Fatalf("expected no launches, got %d", len(launches))
	}
}

func TestWithinWindow(t *testing.T) {
	launches := []models.LaunchRecord{
		{Name: "a", Net: now.Add(24 * time.Hour).Format(time.RFC3339)},
		{Name: "b", Net: now.Add(24*time.Hour + time.Second).Format(time.RFC3339)},
		{Name: "c", Net: now.Add(time.Second).Format(time.RFC3339)},
		{Name: "d", Net: "not a time"},
		{Name: "e", Net: now.Format(time.RFC3339)},
	}
	got := WithinWindow(launches, now, 24*time.Hour)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Fatalf("WithinWindow = %+v", got)
	}
	for _, l := range got {
		ts, ok := l.ScheduledAt()
		if !ok || !ts.After(now) || ts.After(now.Add(24*time.Hour)) {
			t.Errorf("%s outside window: %v", l.Name, ts)
		}
	}
}
