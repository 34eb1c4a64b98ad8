package completion

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Sanitize strips markdown noise from free-text model output: bold
// markers, stray asterisks, literal backslash-n sequences left over from
// escaped JSON strings, and runs of whitespace. Pass order matters; the
// whitespace collapse operates on the result of the earlier removals.
// Idempotent.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.ReplaceAll(s, `\n`, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
