package studyquiz

import "time"

// MCQuestion represents a single multiple choice question with four lettered options
type MCQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"` // "A" through "D"
	Explanation   string   `json:"explanation"`
}

// CorrectIndex returns the 0-based option index named by CorrectAnswer, or -1
func (q MCQuestion) CorrectIndex() int {
	if len(q.CorrectAnswer) != 1 {
		return -1
	}
	idx := int(q.CorrectAnswer[0] - 'A')
	if idx < 0 || idx >= len(q.Options) {
		return -1
	}
	return idx
}

// CorrectOption returns the text of the correct option, or "" when the letter is out of range
func (q MCQuestion) CorrectOption() string {
	idx := q.CorrectIndex()
	if idx < 0 {
		return ""
	}
	return q.Options[idx]
}

// Term is a candidate key term with its frequency in one input text
type Term struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Quiz is the envelope returned to presentation layers
type Quiz struct {
	ID             string          `json:"id"`
	EssayQuestions []string        `json:"essay_questions"`
	MCQuestions    []MCQuestion    `json:"mc_questions"`
	KeyTerms       []string        `json:"key_terms"`
	Stats          GenerationStats `json:"stats"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Empty reports whether nothing was generated (empty or whitespace-only input)
func (q *Quiz) Empty() bool {
	return len(q.EssayQuestions) == 0 && len(q.MCQuestions) == 0
}

// GenerationStats describes how much of a quiz came from the text versus fallbacks
type GenerationStats struct {
	KeyTerms      int `json:"key_terms"`
	Sentences     int `json:"sentences"`
	GenericEssays int `json:"generic_essays"`
	GenericMC     int `json:"generic_mc"`
}

// GenerationRequest represents a request to generate questions
type GenerationRequest struct {
	Text string `json:"text"`
}
