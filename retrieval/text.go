package retrieval

import "strings"

// snippetChars bounds the source snippet surfaced with each answer.
const snippetChars = 100

// passageSeparator joins context passages in the prompt.
const passageSeparator = "\n\n---\n\n"

// snippet condenses chunk content into a short single-line excerpt.
func snippet(content string, limit int) string {
	condensed := strings.Join(strings.Fields(content), " ")
	runes := []rune(condensed)
	if len(runes) <= limit {
		return condensed
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

// buildContext joins passages into one bounded context window. A passage
// that would overflow the bound is dropped whole, except the first, which
// is truncated on a rune boundary so there is always some context.
func buildContext(passages []string, maxChars int) string {
	var b strings.Builder
	total := 0
	for _, passage := range passages {
		if passage == "" {
			continue
		}
		runes := []rune(passage)
		sep := 0
		if total > 0 {
			sep = len(passageSeparator)
		}
		if total+sep+len(runes) > maxChars {
			if total == 0 {
				b.WriteString(string(runes[:maxChars]))
			}
			break
		}
		if sep > 0 {
			b.WriteString(passageSeparator)
		}
		b.WriteString(passage)
		total += sep + len(runes)
	}
	return b.String()
}
