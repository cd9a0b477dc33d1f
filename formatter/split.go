package formatter

import (
	"strings"
	"unicode/utf8"
)

// DiscordMessageLimit is the maximum length of a Discord message.
const DiscordMessageLimit = 2000

// SplitMessage splits body into chunks of at most limit characters. It
// prefers breaking before a "---" section delimiter, then after a newline,
// and only cuts mid-line when a single line is longer than limit.
func SplitMessage(body string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(body) <= limit {
		return []string{body}
	}

	var chunks []string
	rest := body
	for utf8.RuneCountInString(rest) > limit {
		window := prefixRunes(rest, limit)
		cut := strings.LastIndex(window, "\n---\n")
		if cut > 0 {
			cut++ // keep the newline with the previous chunk
		} else if nl := strings.LastIndex(window, "\n"); nl > 0 {
			cut = nl + 1
		} else {
			cut = len(window)
		}
		chunks = append(chunks, rest[:cut])
		rest = rest[cut:]
	}
	if strings.TrimSpace(rest) != "" {
		chunks = append(chunks, rest)
	}
	return chunks
}

// prefixRunes returns the longest prefix of s holding at most n runes.
func prefixRunes(s string, n int) string {
	i := 0
	for j := range s {
		if i == n {
			return s[:j]
		}
		i++
	}
	return s
}
