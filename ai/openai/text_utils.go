package openai

// truncateText bounds text to max runes, cutting on a rune boundary so
// multi-byte characters are never split mid-sequence.
func truncateText(s string, max int) string {
	if max <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
