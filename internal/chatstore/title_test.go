package chatstore

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "What is the capital of Sweden?", "What is the capital of Sweden?"},
		{"trims whitespace", "  hello there  ", "hello there"},
		{"collapses whitespace", "hello\n\t  world", "hello world"},
		{"empty", "", "New Chat"},
		{"whitespace only", "   \n\t ", "New Chat"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := deriveTitle(tc.input); got != tc.want {
				t.Fatalf("deriveTitle(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestDeriveTitleTruncatesAtWordBoundary(t *testing.T) {
	input := strings.Repeat("word ", 40)
	got := deriveTitle(input)
	if utf8.RuneCountInString(got) > maxTitleRunes {
		t.Fatalf("title too long: %d runes", utf8.RuneCountInString(got))
	}
	if strings.HasSuffix(got, " ") {
		t.Fatalf("title has trailing space: %q", got)
	}
	if !strings.HasSuffix(got, "word") {
		t.Fatalf("expected cut at word boundary, got %q", got)
	}
}

func TestDeriveTitleKeepsMultibyteRunesIntact(t *testing.T) {
	input := strings.Repeat("héllö ", 30)
	got := deriveTitle(input)
	if !utf8.ValidString(got) {
		t.Fatalf("title is not valid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) > maxTitleRunes {
		t.Fatalf("title too long: %d runes", utf8.RuneCountInString(got))
	}
}
