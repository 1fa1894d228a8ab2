package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "Print the effective template bank as YAML",
		Long: "Print the template bank in use. The output is a valid --templates file and\n" +
			"a starting point for custom prompts.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTemplates(cmd)
			if err != nil {
				return err
			}
			data, err := t.YAML()
			if err != nil {
				return fmt.Errorf("render templates: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
