package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"studyquiz"

	"github.com/spf13/cobra"
)

var errNoInput = errors.New("please enter some text before generating questions")

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Generate questions from a text file, --text or stdin",
		Long: "Generate two essay questions and three multiple choice questions.\n\n" +
			"The text is read from the given .txt file, from --text, or from stdin when\n" +
			"no file (or \"-\") is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().String("text", "", "Text to generate questions from")
	cmd.Flags().StringP("format", "f", "pretty", "Output format: pretty, text or json")
	cmd.Flags().Bool("explanations", true, "Include quiz explanations")
	cmd.Flags().Uint64("seed", 0, "Seed for reproducible template and distractor choices")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	explanations, _ := cmd.Flags().GetBool("explanations")
	outputFile, _ := cmd.Flags().GetString("output")

	switch format {
	case "pretty", "text", "json":
	default:
		return fmt.Errorf("unknown format %q (want pretty, text or json)", format)
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errNoInput
	}

	templates, err := loadTemplates(cmd)
	if err != nil {
		return err
	}
	opts := []studyquiz.Option{studyquiz.WithTemplates(templates)}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		opts = append(opts, studyquiz.WithRandomizer(studyquiz.NewRandomizer(seed)))
	}

	studyquiz.VerboseLog("Generating questions from %d characters of text", len(text))
	quiz := studyquiz.NewQuizGenerator(opts...).GenerateQuiz(studyquiz.GenerationRequest{Text: text})
	if quiz.Empty() {
		return errors.New("could not generate questions from the provided text, try more detailed content")
	}

	out := cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := writeQuiz(out, quiz, format, explanations); err != nil {
		return err
	}
	if outputFile != "" {
		studyquiz.Logger().Infof("Quiz saved to: %s", outputFile)
	}
	return nil
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if cmd.Flags().Changed("text") {
		if len(args) > 0 {
			return "", errors.New("give either a file or --text, not both")
		}
		text, _ := cmd.Flags().GetString("text")
		return text, nil
	}

	if len(args) == 0 || args[0] == "-" {
		text, err := studyquiz.ReadText(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return text, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return "", fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	text, err := studyquiz.ReadText(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return text, nil
}

func writeQuiz(w io.Writer, quiz *studyquiz.Quiz, format string, explanations bool) error {
	switch format {
	case "json":
		output, err := json.MarshalIndent(quiz, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal quiz: %w", err)
		}
		_, err = fmt.Fprintln(w, string(output))
		return err
	case "text":
		return studyquiz.WriteExport(w, quiz.EssayQuestions, quiz.MCQuestions,
			studyquiz.ExportOptions{ShowExplanations: explanations})
	default:
		return renderPretty(w, quiz, explanations)
	}
}
