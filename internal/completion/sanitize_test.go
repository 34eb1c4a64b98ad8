package completion

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bold markers", "**Strength:** save more", "Strength: save more"},
		{"stray asterisks", "* item one * item two", "item one item two"},
		{"escaped newlines", `first\nsecond\nthird`, "first second third"},
		{"whitespace runs", "too   many\t spaces\n\nhere", "too many spaces here"},
		{"leading and trailing", "  padded  ", "padded"},
		{"empty", "", ""},
		{"combined", `**Risk:**\n  high *leisure*   spend`, "Risk: high leisure spend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_NoAsterisksOrRuns(t *testing.T) {
	inputs := []string{
		"**bold** and *italic*",
		"a  b   c    d",
		"***",
		"mix ** of \t everything *  here",
	}
	for _, in := range inputs {
		got := Sanitize(in)
		if strings.Contains(got, "*") {
			t.Errorf("Sanitize(%q) = %q still contains asterisk", in, got)
		}
		if strings.Contains(got, "  ") {
			t.Errorf("Sanitize(%q) = %q still contains whitespace run", in, got)
		}
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"**Strength:** keep it up",
		`line\none line\ntwo`,
		"   plain   text   ",
		"",
		"already clean",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
