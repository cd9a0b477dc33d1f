package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const (
	ColorInfo  = 0x00ff00 // Green
	ColorWarn  = 0xffff00 // Yellow
	ColorError = 0xff0000 // Red
)

// Logger reports bot events. Everything goes to the standard logger;
// WARN and ERROR are also appended to the error log file and, when an
// admin channel is configured, posted there as an embed.
type Logger struct {
	mu        sync.Mutex
	errFile   io.WriteCloser
	session   *discordgo.Session
	channelID string
	runID     string
	now       func() time.Time
}

// NewLogger opens (or creates) the error log at errorLogPath.
// session and channelID may be empty to disable channel reporting.
func NewLogger(errorLogPath string, s *discordgo.Session, channelID string) (*Logger, error) {
	if dir := filepath.Dir(errorLogPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(errorLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}
	if s != nil && channelID == "" {
		log.Println("Warning: bot.adminChannelId is not set. Logging to channel will be disabled.")
	}
	return &Logger{
		errFile:   f,
		session:   s,
		channelID: channelID,
		runID:     uuid.NewString(),
		now:       time.Now,
	}, nil
}

// RunID identifies the pass this logger belongs to.
func (l *Logger) RunID() string {
	return l.runID
}

// Close releases the error log file.
func (l *Logger) Close() error {
	if l == nil || l.errFile == nil {
		return nil
	}
	return l.errFile.Close()
}

// Log records one event.
func (l *Logger) Log(level, module, operation, details string) {
	log.Printf("[%s] run=%s Module: %s, Operation: %s, Details: %s", level, shortID(l.runID), module, operation, details)
	if level == "INFO" {
		return
	}

	l.writeErrorLine(level, module, operation, details)

	if l.session == nil || l.channelID == "" {
		return
	}

	var color int
	switch level {
	case "WARN":
		color = ColorWarn
	case "ERROR":
		color = ColorError
	default:
		color = ColorInfo
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Log Level: %s", level),
		Color:     color,
		Timestamp: l.now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Module", Value: module, Inline: true},
			{Name: "Operation", Value: operation, Inline: true},
			{Name: "Details", Value: truncate(details, 1024)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "run " + l.runID},
	}

	if _, err := l.session.ChannelMessageSendEmbed(l.channelID, embed); err != nil {
		log.Printf("Error sending log message to Discord: %v", err)
	}
}

func (l *Logger) writeErrorLine(level, module, operation, details string) {
	if l.errFile == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	details = strings.ReplaceAll(strings.TrimRight(details, "\n"), "\n", " ")
	line := fmt.Sprintf("%s %s: [%s] %s: %s\n", l.now().Format("2006-01-02 15:04:05"), level, module, operation, details)
	if _, err := io.WriteString(l.errFile, line); err != nil {
		log.Printf("Error writing to error log: %v", err)
	}
}

// Info logs an informational message.
func (l *Logger) Info(module, operation, details string) {
	l.Log("INFO", module, operation, details)
}

// Warn logs a warning message.
func (l *Logger) Warn(module, operation, details string) {
	l.Log("WARN", module, operation, details)
}

// Error logs an error message.
func (l *Logger) Error(module, operation, details string) {
	l.Log("ERROR", module, operation, details)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
