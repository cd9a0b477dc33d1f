package formatter

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// markdownSpecial are escaped with a backslash by Sanitize.
const markdownSpecial = "\\`*_{}[]()#+!"

// invisible reports whether r is a zero-width, bidi-format or control
// character that Sanitize drops.
func invisible(r rune) bool {
	switch {
	case r <= 0x1F, r == 0x7F:
		return true
	case r >= 0x200B && r <= 0x200F: // zero-width space/joiners, LRM/RLM
		return true
	case r >= 0x202A && r <= 0x202E: // bidi embeddings and overrides
		return true
	case r >= 0x2060 && r <= 0x2064: // word joiner, invisible operators
		return true
	case r == 0xFEFF: // byte-order mark
		return true
	}
	return false
}

// Sanitize makes user-supplied text safe to embed in the announcement:
// NFC normalization, invisible characters removed, markdown escaped.
func Sanitize(text string) string {
	text = norm.NFC.String(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if invisible(r) {
			continue
		}
		if strings.ContainsRune(markdownSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
