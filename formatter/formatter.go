// Package formatter renders launch records into a markdown announcement.
package formatter

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // the reference zone must resolve on hosts without zoneinfo

	"launch-bot/models"
	"launch-bot/utils"
)

const (
	bodyHeader  = "Here are the launches scheduled in the next 24 hours:\n\n"
	titlePrefix = "🚀 Upcoming Launches for "
	notAvail    = "Not available"

	bodyFooter = "---\n\n" +
		"Schedule data from [The Space Devs](https://thespacedevs.com/) · " +
		"[Launch Library 2 API](https://ll.thespacedevs.com/docs/)\n"
)

// Formatter renders times and posts in a fixed reference time zone.
type Formatter struct {
	loc    *time.Location
	logger *utils.Logger
}

// New loads the reference zone, e.g. "America/New_York". Values that cannot
// be formatted are reported to logger.
func New(zone string, logger *utils.Logger) (*Formatter, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", zone, err)
	}
	return &Formatter{loc: loc, logger: logger}, nil
}

// FormatTime renders an ISO-8601 instant as
// "2006-01-02 15:04 UTC / 03:04 PM EST". A value that does not parse is
// returned unchanged.
func (f *Formatter) FormatTime(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		f.logger.Error("Formatter", "FormatTime", fmt.Sprintf("Could not parse launch time %q: %v", raw, err))
		return raw
	}
	return t.UTC().Format("2006-01-02 15:04") + " UTC / " + t.In(f.loc).Format("03:04 PM MST")
}

// BuildTitle returns the post title for the date of now in the reference zone.
func (f *Formatter) BuildTitle(now time.Time) string {
	return titlePrefix + now.In(f.loc).Format("January 02, 2006")
}

// BuildBody renders one section per launch between a header and a footer.
// Callers skip posting entirely when there are no launches.
func (f *Formatter) BuildBody(launches []models.LaunchRecord) string {
	var b strings.Builder
	b.WriteString(bodyHeader)
	for _, launch := range launches {
		name := launch.Name
		if name == "" {
			name = "Unknown"
		}
		mission := launch.MissionName()
		if mission == "" {
			mission = "N/A"
		}
		webcast := launch.Webcast()
		if webcast == "" {
			webcast = notAvail
		}

		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "🚀 **%s**\n", Sanitize(name))
		fmt.Fprintf(&b, "**Provider**: %s\n", Sanitize(launch.ProviderName()))
		fmt.Fprintf(&b, "**Mission**: %s\n", Sanitize(mission))
		fmt.Fprintf(&b, "**Launch Time**: %s\n", Sanitize(f.FormatTime(launch.Net)))
		fmt.Fprintf(&b, "**Webcast**: %s\n", Sanitize(webcast))
		fmt.Fprintf(&b, "[More Info](%s)\n\n", launch.URL)
	}
	b.WriteString(bodyFooter)
	return b.String()
}
