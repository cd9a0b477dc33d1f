package formatter

import (
	"strings"
	"testing"
)

func TestSanitizeEscapesMarkdown(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Falcon 9 *Block 5*", `Falcon 9 \*Block 5\*`},
		{"Rocket_Lab", `Rocket\_Lab`},
		{"a\\b", `a\\b`},
		{"(NROL-69) [test] {x} #1 +2 !", `\(NROL-69\) \[test\] \{x\} \#1 \+2 \!`},
		{"`code`", "\\`code\\`"},
		{"Plain text - 3.5 > 2", "Plain text - 3.5 > 2"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeEscapesEverySpecialCharacter(t *testing.T) {
	got := Sanitize(markdownSpecial)
	var want strings.Builder
	for _, r := range markdownSpecial {
		want.WriteByte('\\')
		want.WriteRune(r)
	}
	if got != want.String() {
		t.Fatalf("Sanitize(%q) = %q, want %q", markdownSpecial, got, want.String())
	}
}

func TestSanitizeStripsInvisibleCharacters(t *testing.T) {
	in := "\ufeffStar\u200bship\u200d \u2060Flight\u202e 7\x00\x1b\x7f\n"
	want := "Starship Flight 7"
	if got := Sanitize(in); got != want {
		t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
	}

	for _, r := range []rune{0x00, 0x09, 0x0A, 0x1F, 0x7F, 0x200B, 0x200C, 0x200D, 0x200E, 0x200F, 0x202A, 0x202E, 0x2060, 0x2064, 0xFEFF} {
		if got := Sanitize("a" + string(r) + "b"); got != "ab" {
			t.Errorf("U+%04X not stripped: %q", r, got)
		}
	}
}

func TestSanitizeNormalizesToNFC(t *testing.T) {
	decomposed := "Arianespace Ve\u0301ga"
	want := "Arianespace V\u00e9ga"
	if got := Sanitize(decomposed); got != want {
		t.Fatalf("Sanitize(%q) = %q, want %q", decomposed, got, want)
	}
}

func TestSanitizeIdempotentOnPlainText(t *testing.T) {
	for _, in := range []string{
		"Starlink Group 10-3",
		"Long March 2D | Yaogan-45",
		"Ariane 6 – CSO-3",
		"H3 F5 / Michibiki 6",
		"",
	} {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent on %q: %q then %q", in, once, twice)
		}
	}
}
