package studyquiz

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	exportTitle        = "ASSIGNMENT & QUIZ GENERATOR RESULTS"
	exportEssayHeading = "ASSIGNMENT QUESTIONS:"
	exportQuizHeading  = "QUIZ QUESTIONS:"
	correctPrefix      = "   Correct Answer: "
	explanationPrefix  = "   Explanation: "

	// ExportFilename is the conventional name for a downloaded export
	ExportFilename = "quiz_and_assignments.txt"
)

// ErrMalformedExport is returned when an export document cannot be parsed
var ErrMalformedExport = errors.New("malformed export")

// ExportOptions controls the flat text export
type ExportOptions struct {
	ShowExplanations bool
}

// Export is a parsed export document. Essay questions carry no label.
type Export struct {
	EssayQuestions []string
	MCQuestions    []MCQuestion
}

// WriteExport writes essays and mcs as the flat text document offered for
// download: numbered essay questions with their labels stripped, then
// numbered multiple choice questions with lettered options, the correct
// letter and, optionally, the explanation.
func WriteExport(w io.Writer, essays []string, mcs []MCQuestion, opts ExportOptions) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n%s\n\n", exportTitle, strings.Repeat("=", 50))

	fmt.Fprintf(bw, "%s\n%s\n", exportEssayHeading, strings.Repeat("-", 25))
	for i, q := range essays {
		fmt.Fprintf(bw, "\n%d. %s\n", i+1, StripEssayLabel(q, i+1))
	}

	fmt.Fprintf(bw, "\n\n%s\n%s\n", exportQuizHeading, strings.Repeat("-", 20))
	for i, q := range mcs {
		fmt.Fprintf(bw, "\n%d. %s\n", i+1, q.Question)
		for j, option := range q.Options {
			fmt.Fprintf(bw, "   %s. %s\n", OptionLetter(j), option)
		}
		fmt.Fprintf(bw, "%s%s\n", correctPrefix, q.CorrectAnswer)
		if opts.ShowExplanations {
			fmt.Fprintf(bw, "%s%s\n", explanationPrefix, q.Explanation)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportText returns the export document as a string
func ExportText(essays []string, mcs []MCQuestion, opts ExportOptions) string {
	var buf bytes.Buffer
	// bytes.Buffer writes do not fail
	_ = WriteExport(&buf, essays, mcs, opts)
	return buf.String()
}

var (
	numberedLine = regexp.MustCompile(`^(\d+)\. (.*)$`)
	optionLine   = regexp.MustCompile(`^   ([A-D])\. (.*)$`)
	correctLine  = regexp.MustCompile(`^   Correct Answer: ([A-D])$`)
)

type exportSection int

const (
	sectionHeader exportSection = iota
	sectionEssays
	sectionQuiz
)

// ParseExport reads a document produced by WriteExport back into its
// questions. Explanations are empty when the export left them out.
func ParseExport(r io.Reader) (*Export, error) {
	exp := &Export{EssayQuestions: []string{}, MCQuestions: []MCQuestion{}}
	section := sectionHeader
	var current *MCQuestion

	finish := func(lineNo int) error {
		if current == nil {
			return nil
		}
		if len(current.Options) != OptionCount || current.CorrectAnswer == "" {
			return fmt.Errorf("%w: line %d: question %q is incomplete", ErrMalformedExport, lineNo, current.Question)
		}
		exp.MCQuestions = append(exp.MCQuestions, *current)
		current = nil
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxInputBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		switch {
		case line == exportEssayHeading:
			section = sectionEssays
			continue
		case line == exportQuizHeading:
			section = sectionQuiz
			continue
		case strings.TrimSpace(line) == "", isRule(line), line == exportTitle:
			continue
		}

		switch section {
		case sectionEssays:
			m := numberedLine.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("%w: line %d: expected numbered essay question", ErrMalformedExport, lineNo)
			}
			exp.EssayQuestions = append(exp.EssayQuestions, m[2])

		case sectionQuiz:
			if m := numberedLine.FindStringSubmatch(line); m != nil {
				if err := finish(lineNo); err != nil {
					return nil, err
				}
				current = &MCQuestion{Question: m[2], Options: make([]string, 0, OptionCount)}
				continue
			}
			if current == nil {
				return nil, fmt.Errorf("%w: line %d: option outside a question", ErrMalformedExport, lineNo)
			}
			if m := optionLine.FindStringSubmatch(line); m != nil {
				if m[1] != OptionLetter(len(current.Options)) {
					return nil, fmt.Errorf("%w: line %d: option %s out of order", ErrMalformedExport, lineNo, m[1])
				}
				current.Options = append(current.Options, m[2])
				continue
			}
			if m := correctLine.FindStringSubmatch(line); m != nil {
				current.CorrectAnswer = m[1]
				continue
			}
			if rest, ok := strings.CutPrefix(line, explanationPrefix); ok {
				current.Explanation = rest
				continue
			}
			return nil, fmt.Errorf("%w: line %d: unexpected %q", ErrMalformedExport, lineNo, line)

		default:
			return nil, fmt.Errorf("%w: line %d: content before first section", ErrMalformedExport, lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	if err := finish(lineNo); err != nil {
		return nil, err
	}
	return exp, nil
}

func isRule(line string) bool {
	if line == "" {
		return false
	}
	return strings.Trim(line, "=") == "" || strings.Trim(line, "-") == ""
}
