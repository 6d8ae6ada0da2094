// Package security provides sanitization for untrusted strings, such as ids
// decoded from a stream, before they reach logs.
package security

import (
	"strings"
	"unicode"
)

// DefaultLogLength is the rune budget SanitizeForLog keeps before truncating.
const DefaultLogLength = 200

// SanitizeForLog makes s safe to embed in a single log line. Line breaks and
// tabs are escaped, other control characters are dropped and the result is
// truncated to DefaultLogLength runes.
func SanitizeForLog(s string) string {
	return SanitizeForLogWithLength(s, DefaultLogLength)
}

// SanitizeForLogWithLength sanitizes a string for logging with a custom max length.
func SanitizeForLogWithLength(s string, maxLen int) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(min(len(s), maxLen+10))

	count := 0
	for _, r := range s {
		if count >= maxLen {
			b.WriteString("...")
			break
		}

		switch r {
		case '\n':
			b.WriteString(`\n`)
			count += 2
		case '\r':
			b.WriteString(`\r`)
			count += 2
		case '\t':
			b.WriteString(`\t`)
			count += 2
		default:
			if !unicode.IsControl(r) {
				b.WriteRune(r)
				count++
			}
		}
	}

	return b.String()
}
