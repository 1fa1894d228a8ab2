package studyquiz

import "strings"

// MinSentenceWords is the shortest sentence, in whitespace-separated words,
// that can anchor a question
const MinSentenceWords = 5

// FilterSentences keeps the sentences long enough to anchor a question, in order
func FilterSentences(sentences []string) []string {
	var kept []string
	for _, s := range sentences {
		if len(strings.Fields(s)) >= MinSentenceWords {
			kept = append(kept, s)
		}
	}
	return kept
}
