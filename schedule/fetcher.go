// Package schedule fetches upcoming launches from Launch Library 2.
package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"launch-bot/models"
	"launch-bot/utils"
)

// maxResponseBytes caps how much of the API response is read.
const maxResponseBytes = 8 << 20

// Fetcher retrieves launches due inside the look-ahead window.
type Fetcher struct {
	client    *http.Client
	url       string
	userAgent string
	lookahead time.Duration
	logger    *utils.Logger
}

// NewFetcher creates a Fetcher for the given endpoint. A nil client uses a
// client with the given timeout.
func NewFetcher(client *http.Client, cfg models.LaunchesConfig, userAgent string, logger *utils.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{
		client:    client,
		url:       cfg.APIURL,
		userAgent: userAgent,
		lookahead: cfg.Lookahead(),
		logger:    logger,
	}
}

// FetchUpcoming returns the launches scheduled in (now, now+lookahead], in
// API order. Any failure is logged and yields an empty result.
func (f *Fetcher) FetchUpcoming(ctx context.Context, now time.Time) []models.LaunchRecord {
	results, err := f.fetch(ctx)
	if err != nil {
		f.logger.Error("Fetcher", "FetchUpcoming", fmt.Sprintf("Failed to get launch data: %v", err))
		return nil
	}

	upcoming := WithinWindow(results.Results, now, f.lookahead)
	f.logger.Info("Fetcher", "FetchUpcoming", fmt.Sprintf("%d of %d launches fall within the next %s", len(upcoming), len(results.Results), f.lookahead))
	return upcoming
}

func (f *Fetcher) fetch(ctx context.Context) (*models.LaunchResults, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("unexpected status %s: %s", resp.Status, snippet)
	}

	var results models.LaunchResults
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &results, nil
}

// WithinWindow keeps the launches whose scheduled time t satisfies
// now < t <= now+window. Launches without a usable time are dropped.
func WithinWindow(launches []models.LaunchRecord, now time.Time, window time.Duration) []models.LaunchRecord {
	cutoff := now.Add(window)
	upcoming := make([]models.LaunchRecord, 0, len(launches))
	for _, launch := range launches {
		t, ok := launch.ScheduledAt()
		if !ok {
			continue
		}
		if t.After(now) && !t.After(cutoff) {
			upcoming = append(upcoming, launch)
		}
	}
	return upcoming
}
