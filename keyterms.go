package studyquiz

import (
	"iter"
	"strings"
)

const (
	// MinKeyTerms is the floor the extractor pads up to with single-occurrence words
	MinKeyTerms = 10
	// MaxKeyTerms caps the extracted list
	MaxKeyTerms = 15
)

// KeyTermExtractor ranks words by frequency after stopword removal
type KeyTermExtractor struct {
	stopwords map[string]struct{}
}

// NewKeyTermExtractor creates an extractor that ignores the given stopwords
func NewKeyTermExtractor(stopwords []string) *KeyTermExtractor {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &KeyTermExtractor{stopwords: set}
}

// IsStopword reports whether word is in the extractor's stopword set
func (e *KeyTermExtractor) IsStopword(word string) bool {
	_, ok := e.stopwords[word]
	return ok
}

// Frequencies counts the non-stopword words, in the order each was first seen
func (e *KeyTermExtractor) Frequencies(words iter.Seq[string]) []Term {
	var terms []Term
	index := make(map[string]int)
	for w := range words {
		if e.IsStopword(w) {
			continue
		}
		if i, ok := index[w]; ok {
			terms[i].Count++
			continue
		}
		index[w] = len(terms)
		terms = append(terms, Term{Word: w, Count: 1})
	}
	return terms
}

// Extract returns up to MaxKeyTerms key terms. Every word seen at least
// twice qualifies, in discovery order; when that yields fewer than
// MinKeyTerms the list is padded with words seen once.
func (e *KeyTermExtractor) Extract(words iter.Seq[string]) []string {
	terms := e.Frequencies(words)

	keyTerms := make([]string, 0, MaxKeyTerms)
	for _, t := range terms {
		if t.Count >= 2 {
			keyTerms = append(keyTerms, t.Word)
		}
	}

	for _, t := range terms {
		if len(keyTerms) >= MinKeyTerms {
			break
		}
		if t.Count == 1 {
			keyTerms = append(keyTerms, t.Word)
		}
	}

	if len(keyTerms) > MaxKeyTerms {
		keyTerms = keyTerms[:MaxKeyTerms]
	}
	return keyTerms
}
