package studyquiz

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// EssayQuestionCount is the number of essay prompts per quiz
	EssayQuestionCount = 2
	essayCandidates    = 3
)

// EssayQuestionGenerator binds key terms into essay prompt templates
type EssayQuestionGenerator struct {
	prompts []string
	generic string
	rand    Randomizer
}

// NewEssayQuestionGenerator creates an essay generator over the bank's prompts.
// A bank that fails validation is replaced by the defaults and a nil
// Randomizer by DefaultRandomizer.
func NewEssayQuestionGenerator(t Templates, r Randomizer) *EssayQuestionGenerator {
	t = usableTemplates(t)
	if r == nil {
		r = DefaultRandomizer()
	}
	return &EssayQuestionGenerator{
		prompts: slices.Clone(t.EssayPrompts),
		generic: t.GenericEssayPrompt,
		rand:    r,
	}
}

// Generate returns exactly EssayQuestionCount labelled prompts. The leading
// key terms fill the first slots; the generic prompt fills the rest.
func (g *EssayQuestionGenerator) Generate(keyTerms []string) []string {
	candidates := keyTerms[:min(essayCandidates, len(keyTerms))]

	questions := make([]string, 0, EssayQuestionCount)
	for i, term := range candidates {
		if i >= EssayQuestionCount {
			break
		}
		prompt := fillTerm(choose(g.rand, g.prompts), term)
		questions = append(questions, EssayLabel(i+1)+prompt)
	}

	for len(questions) < EssayQuestionCount {
		questions = append(questions, EssayLabel(len(questions)+1)+g.generic)
	}
	return questions
}

// EssayLabel is the prefix carried by the n-th (1-based) essay question
func EssayLabel(n int) string {
	return fmt.Sprintf("Essay Question %d: ", n)
}

// StripEssayLabel removes the exact label for position n. A question carrying
// a different number is returned unchanged.
func StripEssayLabel(question string, n int) string {
	return strings.ReplaceAll(question, EssayLabel(n), "")
}
