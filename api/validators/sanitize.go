package validators

import "strings"

// SanitizeString prepares free-text form input for storage: control
// characters are dropped and the result is trimmed and capped at maxLen
// runes. Newlines survive so multi-line special requests stay readable.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, input)

	trimmed := strings.TrimSpace(cleaned)
	if maxLen <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) > maxLen {
		return strings.TrimSpace(string(runes[:maxLen]))
	}
	return trimmed
}
