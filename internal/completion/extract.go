package completion

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

var fenceOpen = regexp.MustCompile("(?i)```json\\s*")

// stripFences removes markdown code fences that models commonly wrap
// JSON output in, labeled or not, anywhere in the text.
func stripFences(s string) string {
	s = fenceOpen.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ExtractObject returns the first complete brace-delimited JSON object
// embedded in s. It scans with a depth counter and tracks string
// literals and escapes, so stray braces in surrounding prose or a second
// trailing object do not over-capture.
func ExtractObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", eris.New("extract: no JSON object in text")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", eris.New("extract: unbalanced JSON object in text")
}
