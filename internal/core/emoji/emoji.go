// Package emoji classifies post content against the emoji-only character class
package emoji

import (
	"golang.org/x/text/unicode/norm"
)

// MaxLen is the maximum number of code points a post may carry after normalization
const MaxLen = 280

// Violation names the content rule a string failed
type Violation string

const (
	// ViolationEmpty means the content had no code points
	ViolationEmpty Violation = "content must not be empty"

	// ViolationTooLong means the content exceeded MaxLen code points
	ViolationTooLong Violation = "content must be at most 280 emojis"

	// ViolationNotEmoji means a code point fell outside the emoji class
	ViolationNotEmoji Violation = "only emojis are allowed"
)

// Normalize applies NFC so visually identical sequences validate and store identically
func Normalize(s string) string { return norm.NFC.String(s) }

// Check validates an already normalized string against the emoji-only rules.
// ok=false carries the first violated rule
func Check(s string) (Violation, bool) {
	if s == "" {
		return ViolationEmpty, false
	}

	runes := []rune(s)
	if len(runes) > MaxLen {
		return ViolationTooLong, false
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if isPictographic(r) || isJoiner(r) {
			continue
		}
		// keycap bases (#, *, 0-9) are emoji only as part of a keycap sequence
		if isKeycapBase(r) && isKeycapSequence(runes, i) {
			i = keycapEnd(runes, i)
			continue
		}
		return ViolationNotEmoji, false
	}
	return "", true
}

// isPictographic covers the pictographic blocks plus the legacy symbols
// that render as emoji (watch, arrows, geometric shapes, © ® ™ and friends)
func isPictographic(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF, // symbols and pictographs, incl skin tones
		r >= 0x1F600 && r <= 0x1F64F, // emoticons
		r >= 0x1F680 && r <= 0x1F6FF, // transport
		r >= 0x1F700 && r <= 0x1F8FF, // alchemical + arrows ext
		r >= 0x1F900 && r <= 0x1F9FF, // supplemental pictographs
		r >= 0x1FA00 && r <= 0x1FAFF, // extended pictographs
		r >= 0x1F1E6 && r <= 0x1F1FF, // regional indicators (flags)
		r >= 0x1F000 && r <= 0x1F0FF, // mahjong, dominoes, cards
		r >= 0x1F100 && r <= 0x1F2FF, // enclosed alphanumerics/ideographs
		r >= 0x2600 && r <= 0x26FF, // misc symbols
		r >= 0x2700 && r <= 0x27BF, // dingbats
		r >= 0x2300 && r <= 0x23FF, // misc technical (watch, hourglass)
		r >= 0x25A0 && r <= 0x25FF, // geometric shapes
		r >= 0x2B00 && r <= 0x2BFF, // arrows and stars
		r >= 0x2190 && r <= 0x21FF: // arrows
		return true
	}
	switch r {
	case 0x00A9, 0x00AE, // © ®
		0x203C, 0x2049, // ‼ ⁉
		0x2122, 0x2139, // ™ ℹ
		0x24C2,                 // Ⓜ
		0x3030, 0x303D,         // 〰 〽
		0x3297, 0x3299,         // ㊗ ㊙
		0x2934, 0x2935:         // ⤴ ⤵
		return true
	}
	return false
}

// isJoiner covers sequence glue: ZWJ, variation selectors, combining keycap
func isJoiner(r rune) bool {
	switch r {
	case 0x200D, 0xFE0E, 0xFE0F, 0x20E3:
		return true
	}
	return false
}

func isKeycapBase(r rune) bool {
	return r == '#' || r == '*' || (r >= '0' && r <= '9')
}

// isKeycapSequence reports whether runes[i] starts base [FE0F] 20E3
func isKeycapSequence(runes []rune, i int) bool {
	j := i + 1
	if j < len(runes) && runes[j] == 0xFE0F {
		j++
	}
	return j < len(runes) && runes[j] == 0x20E3
}

// keycapEnd returns the index of the trailing 20E3 for a valid keycap sequence
func keycapEnd(runes []rune, i int) int {
	j := i + 1
	if j < len(runes) && runes[j] == 0xFE0F {
		j++
	}
	return j
}
