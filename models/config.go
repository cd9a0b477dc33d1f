package models

import "time"

// Config is the full bot configuration, decoded from config.yaml, the
// environment and command-line flags.
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Forum    ForumConfig    `mapstructure:"forum"`
	Launches LaunchesConfig `mapstructure:"launches"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// BotConfig holds the Discord credentials and the admin log channel.
type BotConfig struct {
	Token          string `mapstructure:"token" validate:"required"`
	AdminChannelID string `mapstructure:"adminChannelId"`
	UserAgent      string `mapstructure:"userAgent" validate:"required"`
}

// ForumConfig describes the forum channel announcements are posted to and
// the pin-slot policy applied to them.
type ForumConfig struct {
	GuildID        string `mapstructure:"guildId" validate:"required,numeric"`
	ChannelID      string `mapstructure:"channelId" validate:"required,numeric"`
	TagID          string `mapstructure:"tagId" validate:"omitempty,numeric"`
	PinSlots       int    `mapstructure:"pinSlots" validate:"min=1"`
	HotLimit       int    `mapstructure:"hotLimit" validate:"min=1,max=100"`
	CommentLimit   int    `mapstructure:"commentLimit" validate:"min=1,max=100"`
	FallbackNotice string `mapstructure:"fallbackNotice" validate:"required"`
}

// LaunchesConfig controls the schedule API request and the look-ahead window.
type LaunchesConfig struct {
	APIURL         string        `mapstructure:"apiUrl" validate:"required,url"`
	LookaheadHours int           `mapstructure:"lookaheadHours" validate:"min=1"`
	Timezone       string        `mapstructure:"timezone" validate:"required"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// StorageConfig lists the files the bot keeps between passes.
// An empty HistoryDB disables the sqlite post history.
type StorageConfig struct {
	PinLog    string `mapstructure:"pinLog" validate:"required"`
	ErrorLog  string `mapstructure:"errorLog" validate:"required"`
	HistoryDB string `mapstructure:"historyDB"`
}

// Lookahead returns the look-ahead window as a duration.
func (c LaunchesConfig) Lookahead() time.Duration {
	return time.Duration(c.LookaheadHours) * time.Hour
}
