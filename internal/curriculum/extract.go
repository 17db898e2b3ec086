package curriculum

import (
	"regexp"
	"strings"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSON tolerantly pulls a JSON object out of raw model output:
// it prefers the contents of a fenced code block if present, then falls
// back to the span between the first '{' and the last '}' in what
// remains.
func ExtractJSON(raw string) string {
	text := raw
	if m := fencedBlockPattern.FindStringSubmatch(raw); m != nil {
		text = m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[start : end+1])
}
