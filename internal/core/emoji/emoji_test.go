package emoji

import (
	"strings"
	"testing"
)

func TestCheck_AcceptsEmojiContent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
	}{
		{"single face", "😀"},
		{"two faces", "😃😃"},
		{"tears of joy", "😂"},
		{"misc symbol", "☀️"},
		{"dingbat", "✅"},
		{"flag pair", "🇧🇷"},
		{"zwj family", "👨‍👩‍👧"},
		{"skin tone", "👍🏽"},
		{"keycap", "1️⃣"},
		{"keycap no vs", "#⃣"},
		{"copyright", "©"},
		{"max length", strings.Repeat("😀", MaxLen)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if v, ok := Check(Normalize(tc.in)); !ok {
				t.Fatalf("Check(%q) rejected with %q, want accept", tc.in, v)
			}
		})
	}
}

func TestCheck_RejectsNonEmojiContent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want Violation
	}{
		{"empty", "", ViolationEmpty},
		{"ascii word", "hello", ViolationNotEmoji},
		{"mixed", "😀hi", ViolationNotEmoji},
		{"bare digit", "1", ViolationNotEmoji},
		{"digits", "123", ViolationNotEmoji},
		{"whitespace", " ", ViolationNotEmoji},
		{"emoji plus space", "😀 😀", ViolationNotEmoji},
		{"too long", strings.Repeat("😀", MaxLen+1), ViolationTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v, ok := Check(tc.in)
			if ok {
				t.Fatalf("Check(%q) accepted, want violation %q", tc.in, tc.want)
			}
			if v != tc.want {
				t.Fatalf("Check(%q) violation = %q, want %q", tc.in, v, tc.want)
			}
		})
	}
}

func TestNormalize_FoldsDecomposedSequences(t *testing.T) {
	t.Parallel()

	// NFC must be a no-op on plain emoji
	if got := Normalize("😀"); got != "😀" {
		t.Fatalf("Normalize changed plain emoji: %q", got)
	}
}
