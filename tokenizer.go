package studyquiz

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
)

// MinTermLength is the shortest word the tokenizer emits
const MinTermLength = 3

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// Words returns the lowercase words of text that consist solely of ASCII
// letters and are at least MinTermLength long. A word is a maximal run of
// letters, numbers and underscores; runs mixing in anything else (digits,
// accented letters) are dropped whole rather than split.
func Words(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		lower := strings.ToLower(text)
		start, asciiOnly := -1, true
		for i, r := range lower {
			if isWordRune(r) {
				if start < 0 {
					start, asciiOnly = i, true
				}
				if r < 'a' || r > 'z' {
					asciiOnly = false
				}
				continue
			}
			if start >= 0 {
				if asciiOnly && i-start >= MinTermLength && !yield(lower[start:i]) {
					return
				}
				start = -1
			}
		}
		if start >= 0 && asciiOnly && len(lower)-start >= MinTermLength {
			yield(lower[start:])
		}
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Sentences splits text on every run of '.', '!' or '?' and trims each
// fragment. Empty fragments are kept; FilterSentences drops them.
func Sentences(text string) []string {
	if text == "" {
		return nil
	}
	parts := sentenceBreak.Split(text, -1)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
