package geocode

import (
	"strings"
	"unicode"
)

// NormalizePlaceName derives the cache key for a raw place name.
// Tokens of length <= 2 or containing digits are dropped; the survivors
// are rejoined with single spaces. Normalization is deterministic: the
// same raw name always yields the same key. An empty result means the
// name carries no resolvable tokens.
func NormalizePlaceName(raw string) string {
	tokens := strings.Fields(strings.TrimSpace(raw))

	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if len([]rune(token)) <= 2 || containsDigit(token) {
			continue
		}
		kept = append(kept, token)
	}

	return strings.Join(kept, " ")
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
