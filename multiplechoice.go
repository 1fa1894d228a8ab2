package studyquiz

import "slices"

const (
	// MCQuestionCount is the number of multiple choice questions per quiz
	MCQuestionCount = 3
	// OptionCount is the number of options on every multiple choice question
	OptionCount = 4
)

const optionLetters = "ABCD"

// MultipleChoiceGenerator builds multiple choice questions from key terms
// and the sentences that anchor them
type MultipleChoiceGenerator struct {
	templates Templates
	rand      Randomizer
}

// NewMultipleChoiceGenerator creates a multiple choice generator over the bank.
// A bank that fails validation is replaced by the defaults and a nil
// Randomizer by DefaultRandomizer.
func NewMultipleChoiceGenerator(t Templates, r Randomizer) *MultipleChoiceGenerator {
	if r == nil {
		r = DefaultRandomizer()
	}
	return &MultipleChoiceGenerator{templates: usableTemplates(t).Clone(), rand: r}
}

// Generate returns exactly MCQuestionCount questions. Question i is built
// from keyTerms[i] while both keyTerms and sentences reach index i; past
// that the generic question is used.
func (g *MultipleChoiceGenerator) Generate(keyTerms, sentences []string) []MCQuestion {
	questions := make([]MCQuestion, 0, MCQuestionCount)
	for i := range MCQuestionCount {
		if i < len(keyTerms) && i < len(sentences) {
			questions = append(questions, g.fromTerm(keyTerms[i], keyTerms))
			continue
		}
		questions = append(questions, g.Generic())
	}
	return questions
}

// fromTerm assembles the question for term. Distractors reference terms
// drawn independently from the whole list and are not deduplicated.
func (g *MultipleChoiceGenerator) fromTerm(term string, keyTerms []string) MCQuestion {
	t := g.templates
	question := choose(g.rand, t.QuestionStarters) + " " + term + "?"
	correct := fillTerm(t.CorrectAnswer, term)

	options := make([]string, 0, OptionCount)
	options = append(options, correct)
	for i, d := range t.Distractors {
		other := t.DistractorFallbacks[i]
		if len(keyTerms) > 0 {
			other = choose(g.rand, keyTerms)
		}
		options = append(options, fillTerm(d, other))
	}

	shuffleStrings(g.rand, options)
	correctIdx := slices.Index(options, correct)

	return MCQuestion{
		Question:      question,
		Options:       options,
		CorrectAnswer: string(optionLetters[correctIdx]),
		Explanation:   fillTerm(t.Explanation, term),
	}
}

// Generic returns the fallback question used when the text runs out of material
func (g *MultipleChoiceGenerator) Generic() MCQuestion {
	gq := g.templates.GenericQuestion
	return MCQuestion{
		Question:      gq.Question,
		Options:       slices.Clone(gq.Options),
		CorrectAnswer: "A",
		Explanation:   gq.Explanation,
	}
}

// OptionLetter maps a 0-based option index to its letter
func OptionLetter(i int) string {
	if i < 0 || i >= len(optionLetters) {
		return ""
	}
	return string(optionLetters[i])
}
