package main

import (
	"fmt"

	"studyquiz"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "studyquiz",
		Short: "Generate essay prompts and quiz questions from text",
		Long: "studyquiz turns a block of free-form text into two essay prompts and three\n" +
			"multiple choice questions built from its most frequent key terms.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			studyquiz.SetVerbose(verbose)
		},
	}

	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose debugging output")
	rootCmd.PersistentFlags().String("templates", "", "YAML template bank overriding the built-in prompts")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newTemplatesCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// loadTemplates returns the bank named by --templates, or the defaults
func loadTemplates(cmd *cobra.Command) (studyquiz.Templates, error) {
	path, _ := cmd.Flags().GetString("templates")
	if path == "" {
		return studyquiz.DefaultTemplates(), nil
	}
	t, err := studyquiz.LoadTemplatesFile(path)
	if err != nil {
		return studyquiz.Templates{}, fmt.Errorf("load templates: %w", err)
	}
	studyquiz.VerboseLog("Loaded template bank from %s", path)
	return t, nil
}
