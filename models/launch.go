package models

import (
	"encoding/json"
	"time"
)

// LaunchResults is the envelope returned by the upcoming-launch endpoint.
type LaunchResults struct {
	Count   int            `json:"count"`
	Next    string         `json:"next"`
	Results []LaunchRecord `json:"results"`
}

// LaunchRecord is a single launch as returned by Launch Library 2.
type LaunchRecord struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Net      string          `json:"net"` // ISO-8601 with UTC offset
	Provider *LaunchProvider `json:"launch_service_provider"`
	Mission  *LaunchMission  `json:"mission"`
	VidURLs  []VidURL        `json:"vidURLs"`
	URL      string          `json:"url"`
}

// LaunchProvider is the organisation flying the launch.
type LaunchProvider struct {
	Name string `json:"name"`
}

// LaunchMission is the payload mission, absent for many test flights.
type LaunchMission struct {
	Name string `json:"name"`
}

// VidURL is a webcast link. Older API versions return bare strings,
// newer ones objects with a url field; both decode into URL.
type VidURL struct {
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Priority int    `json:"priority,omitempty"`
}

// UnmarshalJSON accepts either a string or an object. Any other shape
// decodes to an empty VidURL so one odd entry cannot fail the whole response.
func (v *VidURL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = VidURL{URL: s}
		return nil
	}
	type plain VidURL
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*v = VidURL{}
		return nil
	}
	*v = VidURL(p)
	return nil
}

// ScheduledAt parses Net. ok is false when the launch has no usable time.
func (l LaunchRecord) ScheduledAt() (t time.Time, ok bool) {
	if l.Net == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, l.Net)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ProviderName returns the provider name or "Unknown".
func (l LaunchRecord) ProviderName() string {
	if l.Provider == nil || l.Provider.Name == "" {
		return "Unknown"
	}
	return l.Provider.Name
}

// MissionName returns the mission name, or "" when there is none.
func (l LaunchRecord) MissionName() string {
	if l.Mission == nil {
		return ""
	}
	return l.Mission.Name
}

// Webcast returns the first webcast URL, or "" when none is listed.
func (l LaunchRecord) Webcast() string {
	for _, v := range l.VidURLs {
		if v.URL != "" {
			return v.URL
		}
	}
	return ""
}
