package main

import (
	"fmt"
	"io"
	"strings"

	"studyquiz"

	"charm.land/lipgloss/v2"
)

var (
	primary = lipgloss.Color("#8B5CF6")
	success = lipgloss.Color("#22C55E")
	textDim = lipgloss.Color("#94A3B8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	questionStyle = lipgloss.NewStyle().Bold(true)

	correctStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(success)

	hintStyle = lipgloss.NewStyle().
			Foreground(textDim).
			Italic(true)
)

// renderPretty prints the quiz for a terminal, marking the correct option
func renderPretty(w io.Writer, quiz *studyquiz.Quiz, explanations bool) error {
	var b strings.Builder
	sep := strings.Repeat("─", 50)

	b.WriteString(titleStyle.Render("Assignment & Quiz Generator") + "\n\n")

	b.WriteString(headingStyle.Render("Assignment Questions") + "\n\n")
	for i, q := range quiz.EssayQuestions {
		fmt.Fprintf(&b, "%s\n%s\n\n", questionStyle.Render(fmt.Sprintf("Question %d", i+1)), studyquiz.StripEssayLabel(q, i+1))
	}
	b.WriteString(sep + "\n\n")

	b.WriteString(headingStyle.Render("Quiz Questions") + "\n\n")
	for i, q := range quiz.MCQuestions {
		fmt.Fprintf(&b, "%s\n%s\n", questionStyle.Render(fmt.Sprintf("Question %d", i+1)), q.Question)
		for j, option := range q.Options {
			letter := studyquiz.OptionLetter(j)
			if letter == q.CorrectAnswer {
				b.WriteString(correctStyle.Render(fmt.Sprintf("%s. %s ✓", letter, option)) + "\n")
				continue
			}
			fmt.Fprintf(&b, "%s. %s\n", letter, option)
		}
		fmt.Fprintf(&b, "Correct Answer: %s\n", q.CorrectAnswer)
		if explanations {
			b.WriteString(hintStyle.Render("Explanation: "+q.Explanation) + "\n")
		}
		b.WriteString("\n")
	}

	if studyquiz.Verbose() {
		b.WriteString(hintStyle.Render(fmt.Sprintf("Key terms: %s", strings.Join(quiz.KeyTerms, ", "))) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
